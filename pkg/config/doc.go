// Package config provides configuration management for the rule engine.
//
// Configuration is read from a YAML file and can be overridden with
// environment variables. The result is type-checked and validated before use.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("ruleengine.yaml")             // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("ruleengine.yaml") // file + env
//	cfg, err := config.LoadConfigWithEnvOverrides("")            // defaults + env
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention RULEENGINE_SECTION_FIELD:
//
//   - RULEENGINE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - RULEENGINE_STORAGE_SQLITE_PATH overrides storage.sqlite.path
//   - RULEENGINE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// A malformed override (for example a duration that does not parse) is a
// validation error rather than being ignored.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:8080"
//
//	storage:
//	  driver: "sqlite"
//	  sqlite:
//	    path: "data/rules.db"
//
//	rules:
//	  seed_file: "rules.yaml"
//	  watch: true
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
