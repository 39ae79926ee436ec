package config

type Config interface {
	EnvConfig
	FileConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetConfigFile() string
}

type FileConfig interface {
	GetAPIBaseURL() string
	GetLogFile() string
	GetTokenDir() string
	GetRequestTimeoutSeconds() int
}

type mainConfig struct {
	EnvVars
	File
}

// New builds the console configuration. File values are loaded from the
// YAML config file named by CONSOLE_CONFIG (missing file is not an error);
// environment variables override file values.
func New() Config {
	env := EnvVars{}
	file := LoadFile(env.GetConfigFile())
	return mainConfig{EnvVars: env, File: file}
}
