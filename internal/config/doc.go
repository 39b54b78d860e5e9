// Package config loads server configuration from a TOML file and the environment.
//
// Precedence, lowest first: built-in defaults, the TOML file, environment
// variables. A missing file is ignored.
//
//	# ~/.chordid/config.toml
//	db_path = "~/.chordid"
//	history_enabled = true
//	cache_size = 1000
//	workers = 4
//	max_progression = 64
//	log_level = "info"
//
// Environment overrides: CHORDID_DB_PATH, CHORDID_HISTORY, CHORDID_CACHE_SIZE,
// CHORDID_WORKERS and LOG_LEVEL. CHORDID_CONFIG selects the file.
package config
