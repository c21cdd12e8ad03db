// Package config handles configuration loading for artflow.
//
// Configuration is loaded from YAML files with environment variable
// expansion. A .env file in the working directory is read first, so
// development setups can keep secrets out of the config file:
//
//	database:
//	  path: "${ARTFLOW_DB_PATH}"
//
//	catalog:
//	  subscriber_buffer: 64
//
//	assets:
//	  dir: "./assets"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// When no config file exists, Default() supplies a working configuration
// with the database next to the executable.
package config
