// Package app is the composition root of luvo.
//
// Run loads configuration and preferences, opens the log file, builds the
// backend client, the terminal host, the state store and the reading
// workflow, then hands control to the Bubble Tea UI until the user quits
// or the context is cancelled.
//
//	Run()
//	  ├─> LoadConfig()        config.toml, env, --api-url
//	  ├─> newLogger()         slog text records in log_file
//	  ├─> prefs.Load()        theme, last spread
//	  ├─> NewClient()         REST + live WebSocket client
//	  ├─> host.NewTerminal()  identity and viewport
//	  ├─> reading.New()       workflow over state.Store
//	  ├─> Workflow.Attach()   read host, expand to alt screen
//	  └─> ui.Run()            blocks
//
// Configuration errors and a malformed host identity are fatal. An
// unreadable prefs file is logged and defaults are used.
//
// The CLI subcommands reuse LoadConfig and NewClient without starting the
// UI.
package app
