// Package config loads the luvo client configuration.
//
// # Overview
//
// Settings come from a TOML file read through viper, overridden by
// environment variables. A .env file in the working directory can seed the
// environment first (LoadDotEnv), which keeps the backend's own .env usable
// for the client.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/luvo/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. Environment variables override whatever the file says
//
// # TOML Format
//
//	api_url = "http://localhost:8000"
//	request_timeout = "90s"
//	log_file = "~/.local/state/luvo/luvo.log"
//	log_level = "info"
//
//	[reveal]
//	initial_delay = "500ms"
//	card_interval = "300ms"
//	interpretation_delay = "500ms"
//
//	[host]
//	init_data = "query_id=...&user=%7B...%7D&auth_date=...&hash=..."
//	user_id = 279058397
//	username = "seeker"
//	first_name = "Анна"
//	bg_color = "#1a1a2e"
//
// Every field is optional. Tilde expansion is applied to log_file.
//
// # Environment
//
//   - API_URL or LUVO_API_URL: backend base URL
//   - LUVO_REQUEST_TIMEOUT, LUVO_LOG_FILE, LUVO_LOG_LEVEL
//   - LUVO_REVEAL_CARD_INTERVAL and friends
//   - LUVO_HOST_INIT_DATA, LUVO_HOST_USER_ID, LUVO_HOST_USERNAME, ...
//
// # Error Handling
//
// Missing config files are not an error. Load fails on unparsable TOML and
// on values that cannot be decoded (for example a malformed duration).
package config
