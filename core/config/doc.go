// Package config provides configuration management for the reconciliation
// service.
//
// It utilizes Viper for loading configuration from environment variables and
// .env files.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, reconciler policy)
//   - Database: MySQL connection details for the observed store
//   - Storage: S3/MinIO credentials and bucket settings for snapshots
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
