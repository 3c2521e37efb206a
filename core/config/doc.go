// Package config provides configuration management for bucketkit.
//
// It uses Viper to read environment variables (optionally seeded from a .env
// file via godotenv). Defaults come from the `default` struct tags of each
// section, and nested keys map to upper-case env names with "_" separators
// (storage.region -> STORAGE_REGION).
//
// # Configuration Structure
//
//   - Server: HTTP listen port and API key
//   - Storage: endpoint, region, TLS, optional explicit credentials, default bucket
//   - Log: level, format, and the optional storage log sink
//
// AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY are not part of Config; the
// storage credential chain reads them directly.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Region)
package config
