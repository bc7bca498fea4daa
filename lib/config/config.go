// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the capture
// service.
//
// Configuration comes from two layered sources, applied in order:
//
//  1. an optional YAML file, located via the CAPTURE_CONFIG
//     environment variable or the --config flag
//  2. environment variable overrides (GITHUB_TOKEN, GITHUB_OWNER,
//     GITHUB_REPO, GITHUB_BRANCH, CAPTURE_LISTEN)
//
// There is no automatic discovery beyond this. Configuration is
// resolved exactly once at startup and passed explicitly into every
// component constructor; missing required values are a fatal startup
// condition, never a per-request error.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "CAPTURE_CONFIG"

// Defaults applied when neither file nor environment supplies a value.
const (
	DefaultListen     = "127.0.0.1:8436"
	DefaultBaseBranch = "main"
	DefaultBranch     = "captures"
)

// Config is the process-wide configuration for the capture service.
// It is immutable after Load returns.
type Config struct {
	// Listen is the TCP address the HTTP adapter binds.
	Listen string `yaml:"listen"`

	// Store configures the remote version-controlled file store.
	Store StoreConfig `yaml:"store"`
}

// StoreConfig identifies the remote store and the credential used to
// reach it. All requests are authenticated as this single service
// identity — there is no per-caller identity.
type StoreConfig struct {
	// BaseURL overrides the store API root. Defaults to the public
	// GitHub API. Must be HTTPS when set.
	BaseURL string `yaml:"base_url"`

	// Token is the bearer credential. Prefer TokenFile in deployed
	// environments so the credential stays out of config files.
	Token string `yaml:"token"`

	// TokenFile is a path to a file containing the bearer credential.
	// Surrounding whitespace is trimmed. Used only when Token is
	// empty.
	TokenFile string `yaml:"token_file"`

	// AppID, PrivateKeyFile, and InstallationID configure GitHub App
	// authentication as an alternative to a token: the service signs
	// JWTs with the App's private key and exchanges them for
	// short-lived installation tokens. All three must be set together,
	// and App auth is mutually exclusive with Token/TokenFile.
	AppID          int64  `yaml:"app_id"`
	PrivateKeyFile string `yaml:"private_key_file"`
	InstallationID int64  `yaml:"installation_id"`

	// PrivateKey is the PEM content read from PrivateKeyFile.
	PrivateKey []byte `yaml:"-"`

	// Owner and Repo identify the repository acting as the store.
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// BaseBranch is the namespace new capture branches are created
	// from. Defaults to "main".
	BaseBranch string `yaml:"base_branch"`

	// Branch is the working namespace captures are written to.
	// Created from BaseBranch on first use. Defaults to "captures".
	Branch string `yaml:"branch"`
}

// Load reads configuration from the given file path (may be empty:
// environment-only), applies environment overrides, fills defaults,
// and validates. When path is empty, CAPTURE_CONFIG is consulted for
// a file location.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		decoder := yaml.NewDecoder(strings.NewReader(string(data)))
		decoder.KnownFields(true)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if config.Listen == "" {
		config.Listen = DefaultListen
	}
	if config.Store.BaseBranch == "" {
		config.Store.BaseBranch = DefaultBaseBranch
	}
	if config.Store.Branch == "" {
		config.Store.Branch = DefaultBranch
	}

	if config.Store.Token == "" && config.Store.TokenFile != "" {
		token, err := readTokenFile(config.Store.TokenFile)
		if err != nil {
			return nil, err
		}
		config.Store.Token = token
	}

	if config.Store.PrivateKeyFile != "" {
		key, err := os.ReadFile(config.Store.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading private key file %s: %w", config.Store.PrivateKeyFile, err)
		}
		config.Store.PrivateKey = key
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides layers environment variables over file values.
// The variable names match the original deployment surface so the
// service drops into an existing environment unchanged.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		config.Store.Token = v
	}
	if v := os.Getenv("GITHUB_OWNER"); v != "" {
		config.Store.Owner = v
	}
	if v := os.Getenv("GITHUB_REPO"); v != "" {
		config.Store.Repo = v
	}
	if v := os.Getenv("GITHUB_BRANCH"); v != "" {
		config.Store.Branch = v
	}
	if v := os.Getenv("CAPTURE_LISTEN"); v != "" {
		config.Listen = v
	}
}

// readTokenFile reads and trims a credential file. The file must
// contain a non-empty token.
func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading token file %s: %w", path, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return token, nil
}

// validate checks that every required field is present. Returned
// errors name the missing field and the environment variable that can
// supply it.
func (config *Config) validate() error {
	hasToken := config.Store.Token != ""
	hasApp := config.Store.AppID != 0 || config.Store.PrivateKeyFile != "" || config.Store.InstallationID != 0

	if hasToken && hasApp {
		return fmt.Errorf("config: store token and App credentials are mutually exclusive")
	}
	if !hasToken && !hasApp {
		return fmt.Errorf("config: store credentials are required (store.token, store.token_file, GITHUB_TOKEN, or App auth via store.app_id)")
	}
	if hasApp {
		if config.Store.AppID == 0 || config.Store.PrivateKeyFile == "" || config.Store.InstallationID == 0 {
			return fmt.Errorf("config: App auth requires store.app_id, store.private_key_file, and store.installation_id together")
		}
	}
	if config.Store.Owner == "" {
		return fmt.Errorf("config: store owner is required (store.owner or GITHUB_OWNER)")
	}
	if config.Store.Repo == "" {
		return fmt.Errorf("config: store repo is required (store.repo or GITHUB_REPO)")
	}
	if config.Store.BaseURL != "" && !strings.HasPrefix(config.Store.BaseURL, "https://") {
		return fmt.Errorf("config: store base_url must use HTTPS (got %q)", config.Store.BaseURL)
	}
	return nil
}
