package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar    = "APP_NAME"
	configFileVar = "CONSOLE_CONFIG"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Athena Console")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetConfigFile() string {
	return GetEnv(configFileVar, filepath.Join(userConfigDir(), "athena-console", "config.yaml"))
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return dir
}
