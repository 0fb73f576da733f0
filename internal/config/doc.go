// Package config loads runtime configuration for the musicarchive CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are decoded as YAML, anything else as JSON.
//  3. Environment variables prefixed with MUSICARCHIVE_.
//  4. Command-line flags.
//
// Supported flags
//
//	-d string   path to the SQLite database file
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json)
//
// # File schema
//
// Durations accept "5s" style strings or integer nanoseconds:
//
//	database_path: music_library.db
//	busy_timeout: 5s
//	log_level: info
//	log_format: text
//	min_password_length: 8
//	salt_length: 32
//	argon_time: 3
//	argon_memory_kib: 65536
//	argon_threads: 4
//
// Keys absent from the file keep their previous value.
package config
