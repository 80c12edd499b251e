package config

import (
	"os"
	"path/filepath"
)

const (
	baseURLVar    = "DEVLINK_BASE_URL"
	appNameVar    = "DEVLINK_APP_NAME"
	storageDirVar = "DEVLINK_STORAGE_DIR"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetBaseURL returns the backend origin all API paths are resolved against
// (e.g. "https://api.devlink.dev")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "DevLink")
}

// GetStorageDir returns the directory the credential file lives in.
// Defaults to ~/.devlink, falling back to the working directory when the
// home directory cannot be resolved.
func (EnvVars) GetStorageDir() string {
	if dir := os.Getenv(storageDirVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".devlink"
	}
	return filepath.Join(home, ".devlink")
}

// GetListenAddr is the address the demo app's local listener binds to. The
// OAuth redirect registered with the backend must point at it.
func (EnvVars) GetListenAddr() string {
	addr := GetEnv("DEVLINK_LISTEN", "3000")
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return addr
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
