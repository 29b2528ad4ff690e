// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `homeserver: https://matrix.lectern.press
blog: "!abc123:lectern.press"
alias_prefix: press.
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LECTERN_CONFIG", path)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Homeserver != "https://matrix.lectern.press" {
		t.Errorf("Homeserver = %q", config.Homeserver)
	}
	if config.Blog != "!abc123:lectern.press" {
		t.Errorf("Blog = %q", config.Blog)
	}
	if config.AliasPrefix != "press." {
		t.Errorf("AliasPrefix = %q", config.AliasPrefix)
	}
}

func TestLoadConfigMissingFileIsEmpty(t *testing.T) {
	t.Setenv("LECTERN_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *config != (Config{}) {
		t.Errorf("config = %+v, want zero value", config)
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("homeserver: [oops"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LECTERN_CONFIG", path)
	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for malformed config")
	}
}
