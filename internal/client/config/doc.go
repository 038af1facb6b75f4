// Package config loads runtime configuration for the DVI mechanic CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the backend HTTP API
//	-a string   address:port of the backend gRPC health endpoint ("" disables probing)
//	-i int      online status check interval (seconds)
//	-t duration timeout of one reachability probe
//	-r duration timeout of one HTTP request
//	-d string   data directory holding the local database
//	-l string   log file (rotated); empty logs to stderr only
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or integer
// nanoseconds. Keys that are absent keep their default.
//
//	{
//	  "api_base_url": "https://dvi.example.com",
//	  "health_endpoint_addr": "dvi.example.com:50051",
//	  "online_check_interval": "3s",
//	  "probe_timeout": "2s",
//	  "request_timeout": "15s",
//	  "data_dir": "/var/lib/dvi",
//	  "log_file": "/var/log/dvi/client.log",
//	  "log_max_age_days": 14
//	}
package config
