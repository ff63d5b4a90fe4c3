// Package config provides configuration helpers for go-avatar commands:
// environment lookups and the YAML tuning file.
package config

import (
	"os"

	"github.com/teslashibe/go-avatar/pkg/animator"
)

// Defaults used when the environment is silent.
const (
	DefaultLogLevel = "info"
	DefaultWebPort  = "8080"
)

// LogLevel returns the log level from LOG_LEVEL or DefaultLogLevel.
func LogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return DefaultLogLevel
}

// WebPort returns the dashboard port from WEB_PORT or DefaultWebPort.
func WebPort() string {
	if port := os.Getenv("WEB_PORT"); port != "" {
		return port
	}
	return DefaultWebPort
}

// ConfigPath returns the tuning file path from AVATAR_CONFIG.
// Empty means built-in defaults.
func ConfigPath() string {
	return os.Getenv("AVATAR_CONFIG")
}

// VariantPolicy returns the policy from AVATAR_VARIANT_POLICY.
// ok is false when the variable is unset.
func VariantPolicy() (policy animator.VariantPolicy, ok bool, err error) {
	v := os.Getenv("AVATAR_VARIANT_POLICY")
	if v == "" {
		return animator.VariantKeepPrevious, false, nil
	}
	policy, err = animator.ParseVariantPolicy(v)
	return policy, err == nil, err
}
