// Package config provides configuration for figurine.
//
// Settings come from three layers, later layers winning:
//
//  1. Default values from Default()
//  2. A TOML or YAML file, chosen by extension
//  3. FIGURINE_* environment variables
//
// Example TOML:
//
//	[engine]
//	padding = 20
//	resize_debounce = "100ms"
//	flow_width_fraction = 1.0
//
//	[keys]
//	precision = "Ctrl"
//	fine = "Shift"
//	coarse_step = 10
//	fine_step = 2
//
//	[keys.bindings]
//	mode-move = ["Alt+m"]
//	delete = ["Delete", "Backspace"]
//
// A Watcher reloads the file when it changes on disk.
package config
