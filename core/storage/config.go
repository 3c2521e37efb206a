package storage

// Config holds configuration for the storage connection.
type Config struct {
	// Endpoint is the host of the S3-compatible service. A scheme prefix is stripped.
	Endpoint string `mapstructure:"endpoint" default:"s3.amazonaws.com"`
	// Region is the location of the buckets (e.g., us-west-2).
	Region string `mapstructure:"region" default:"us-west-2"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// AccessKey is an explicit access key ID. Leave empty to use the environment or instance profile.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is an explicit secret access key.
	SecretKey string `mapstructure:"secret_key" default:""`
	// SessionToken is an optional session token for temporary explicit credentials.
	SessionToken string `mapstructure:"session_token" default:""`
	// Bucket is the default bucket used by the CLI and HTTP feature when none is given.
	Bucket string `mapstructure:"bucket" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// HasExplicitCredentials reports whether both halves of an explicit key pair are set.
func (c Config) HasExplicitCredentials() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}
