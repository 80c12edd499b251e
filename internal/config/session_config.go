package config

import (
	"strings"
	"time"
)

type SessionConfig interface {
	GetRenewalMode() string
	GetRenewalInterval() time.Duration
	GetRequestTimeout() time.Duration
	GetAuthEntryPath() string
}

type Session struct{}

var _ SessionConfig = Session{}

const (
	// RenewalModeProactive runs a recurring background renewal timer.
	RenewalModeProactive = "proactive"
	// RenewalModeReactive renews only when Renew is called explicitly.
	RenewalModeReactive = "reactive"
)

// GetRenewalMode returns the configured renewal strategy, defaulting to
// proactive. Any unrecognised value is treated as proactive.
func (Session) GetRenewalMode() string {
	mode := strings.ToLower(GetEnv("DEVLINK_RENEWAL_MODE", RenewalModeProactive))
	if mode != RenewalModeReactive {
		return RenewalModeProactive
	}
	return mode
}

// GetRenewalInterval is the proactive renewal firing interval. It must stay
// safely shorter than the server-side session lifetime.
func (Session) GetRenewalInterval() time.Duration {
	if d, err := time.ParseDuration(GetEnv("DEVLINK_RENEWAL_INTERVAL", "")); err == nil && d > 0 {
		return d
	}
	return 25 * time.Minute
}

// GetRequestTimeout bounds the current-user fetch; other calls rely on the
// transport's defaults.
func (Session) GetRequestTimeout() time.Duration {
	if d, err := time.ParseDuration(GetEnv("DEVLINK_REQUEST_TIMEOUT", "")); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// GetAuthEntryPath is the unauthenticated OAuth entry point users are sent
// to when a session ends.
func (Session) GetAuthEntryPath() string {
	return GetEnv("DEVLINK_AUTH_ENTRY_PATH", "/auth/github")
}
