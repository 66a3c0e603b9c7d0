// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the terminal configuration.
//
// TOML is the primary format; JSON and YAML files are accepted by
// extension. Values are resolved in this order:
//   - Built-in defaults
//   - The config file (~/.shepard/config.toml unless --config is given)
//   - Environment variables (SHEPARD_*)
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Authority.Timeout()
//
// A Watcher reloads the file when it changes so the console can pick up
// debounce, idle-lock and theme changes without a restart.
package config
