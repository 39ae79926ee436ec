package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileValues mirrors the YAML console config file.
type fileValues struct {
	APIBaseURL            string `yaml:"api_base_url"`
	LogFile               string `yaml:"log_file"`
	TokenDir              string `yaml:"token_dir"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

type File struct {
	values fileValues
}

var _ FileConfig = File{}

// LoadFile reads the YAML config file at path. A missing or unreadable file
// yields defaults; a present file overrides them field by field.
func LoadFile(path string) File {
	f := File{}
	data, err := os.ReadFile(path)
	if err != nil {
		return f
	}
	_ = yaml.Unmarshal(data, &f.values)
	return f
}

func (f File) GetAPIBaseURL() string {
	if v := os.Getenv("ATHENA_API_URL"); v != "" {
		return v
	}
	if f.values.APIBaseURL != "" {
		return f.values.APIBaseURL
	}
	return "http://localhost:8080/api"
}

func (f File) GetLogFile() string {
	if v := os.Getenv("CONSOLE_LOG_FILE"); v != "" {
		return v
	}
	if f.values.LogFile != "" {
		return f.values.LogFile
	}
	return filepath.Join(userConfigDir(), "athena-console", "console.log")
}

func (f File) GetTokenDir() string {
	if v := os.Getenv("CONSOLE_TOKEN_DIR"); v != "" {
		return v
	}
	if f.values.TokenDir != "" {
		return f.values.TokenDir
	}
	return filepath.Join(userConfigDir(), "athena-console")
}

func (f File) GetRequestTimeoutSeconds() int {
	if f.values.RequestTimeoutSeconds > 0 {
		return f.values.RequestTimeoutSeconds
	}
	return 30
}
