// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/shepard-terminal/internal/config"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, _, err := parseFlags([]string{
		"--config", "/tmp/x.toml",
		"--authority-url", "https://auth.example",
		"--log-level", "debug",
	}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.toml", opts.configPath)
	assert.Equal(t, "https://auth.example", opts.authorityURL)
	assert.Equal(t, "debug", opts.logLevel)
	assert.False(t, opts.help)
}

func TestParseFlags_Help(t *testing.T) {
	var stderr bytes.Buffer
	opts, _, err := parseFlags([]string{"-h"}, &stderr)
	require.NoError(t, err)
	assert.True(t, opts.help)
}

func TestParseFlags_Errors(t *testing.T) {
	var stderr bytes.Buffer
	_, _, err := parseFlags([]string{"--bogus"}, &stderr)
	assert.Error(t, err)

	_, _, err = parseFlags([]string{"extra"}, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected argument")
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "shepard-terminal "+Version)
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--help"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "--authority-url")
}

func TestRun_InitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"--init-config", "--config", path}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Authority.URL, cfg.Authority.URL)

	err = run([]string{"--init-config", "--config", path}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := loadConfig(options{configPath: path, authorityURL: "https://auth.example/", logLevel: "WARN"})
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example", cfg.Authority.URL)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = loadConfig(options{configPath: path, authorityURL: "not a url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid flags")
}

func TestApplyOverrides_ReloadedConfig(t *testing.T) {
	reloaded := config.Default()
	reloaded.Log.Level = "debug"
	reloaded.Authority.URL = "http://file.example"

	applyOverrides(options{logLevel: "WARN"}, reloaded)
	assert.Equal(t, "warn", reloaded.Log.Level)
	assert.Equal(t, "http://file.example", reloaded.Authority.URL)

	untouched := config.Default()
	untouched.Log.Level = "debug"
	applyOverrides(options{}, untouched)
	assert.Equal(t, "debug", untouched.Log.Level)
}
