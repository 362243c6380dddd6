package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is where the journal lives when no config says otherwise.
	DefaultPath = "~/.kcal.db"
	// DefaultPrefix namespaces every record key.
	DefaultPrefix = "@kcal"
)

// Config locates the journal.
type Config interface {
	BasePath() string
	Prefix() string
	LogLevel() string
}

// LoadConfig reads .kcal.yaml from $KCAL_CONFIG_PATH or the working directory
// and KCAL_* environment variables.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", DefaultPath)
	viper.SetDefault("prefix", DefaultPrefix)
	viper.SetDefault("log-level", "warn")
	viper.SetConfigName(".kcal") // .yaml is implicit
	viper.SetEnvPrefix("KCAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("KCAL_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config file: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return &FileConfig{
		Path:         path,
		RecordPrefix: viper.GetString("prefix"),
		Level:        viper.GetString("log-level"),
		Source:       viper.ConfigFileUsed(),
	}, nil
}

// FileConfig is the resolved configuration.
type FileConfig struct {
	Path         string `json:"path"`
	RecordPrefix string `json:"prefix"`
	Level        string `json:"logLevel"`
	// Source is the config file that was read, empty when defaults and
	// environment were enough.
	Source string `json:"source,omitempty"`
}

func (f *FileConfig) BasePath() string {
	return f.Path
}

func (f *FileConfig) Prefix() string {
	if f.RecordPrefix == "" {
		return DefaultPrefix
	}
	return f.RecordPrefix
}

func (f *FileConfig) LogLevel() string {
	return f.Level
}
