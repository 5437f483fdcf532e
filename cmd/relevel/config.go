// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration, loaded from an optional relevel.yaml
// and overridable per-field by environment variables and flags
// (precedence: flag > env > file > default).
type Config struct {
	// BaseURL of a running leveler service. Empty means the CLI talks to
	// the oracle directly, in-process.
	BaseURL string `yaml:"base_url"`

	// APIToken is sent as a bearer token when BaseURL is set.
	APIToken string `yaml:"api_token"`

	// Oracle selects the in-process backend: "openai" or "ollama".
	Oracle string `yaml:"oracle"`

	// Grade and Curriculum are the default rewrite targets.
	Grade      string `yaml:"grade"`
	Curriculum string `yaml:"curriculum"`

	// ExtraPrompt is appended to every instruction.
	ExtraPrompt string `yaml:"extra_prompt"`

	// SessionFile carries the conversion ledger across invocations so
	// revert works between runs. Supports ~ expansion.
	SessionFile string `yaml:"session_file"`

	// PromptOverrides points at a prompt template overrides file.
	PromptOverrides string `yaml:"prompt_overrides"`

	// Port for the serve command.
	Port string `yaml:"port"`

	// LogDir enables JSON file logging when set.
	LogDir string `yaml:"log_dir"`
}

// LoadConfig reads path (missing file is fine, it just yields defaults)
// and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		SessionFile: "~/.relevel/session.json",
		Port:        "12310",
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// no config file, defaults apply
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg.BaseURL, "LEVELER_BASE_URL")
	applyEnv(&cfg.APIToken, "LEVELER_API_TOKEN")
	applyEnv(&cfg.Oracle, "LEVELER_ORACLE")
	applyEnv(&cfg.PromptOverrides, "LEVELER_PROMPT_OVERRIDES")
	applyEnv(&cfg.Port, "LEVELER_PORT")
	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
