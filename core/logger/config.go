package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level to log (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the output encoding (json, console).
	Format string `mapstructure:"format" default:"json"`
	// SinkBucket enables shipping log records to this bucket when set.
	SinkBucket string `mapstructure:"sink_bucket" default:""`
	// SinkPrefix is the key prefix for shipped log objects.
	SinkPrefix string `mapstructure:"sink_prefix" default:"logs"`
	// SinkFlushSeconds is how often a running server ships buffered records. Zero disables the timer.
	SinkFlushSeconds int `mapstructure:"sink_flush_seconds" default:"10"`
	// SinkMaxBytes ships the buffer early once it reaches this size. Zero disables it.
	SinkMaxBytes int `mapstructure:"sink_max_bytes" default:"1048576"`
}
