// Package config provides configuration loading for the punch CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from .env
//	2. A YAML file: $PUNCH_CONFIG_FILE, ./punch.yaml or ./configs/punch.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PUNCH_<SECTION>_<FIELD>:
//
//	PUNCH_PROCESSING_LATE_CUTOFF_MINUTES=600
//	PUNCH_EXPORT_FORMATS=xlsx,pdf
//	PUNCH_EXPORT_LATE_PENALTY_DAYS=0.5
//	PUNCH_LOGGING_LEVEL=debug
//	PUNCH_PATHS_OUTPUT_DIR=/tmp/reports
//
// # Validation
//
// Load validates the merged result with struct tags and rejects unknown
// layouts, formats and log levels as well as a malformed penalty rule.
package config
