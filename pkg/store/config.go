package store

import (
	"log"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the store and sizes the history.
type Config interface {
	BasePath() string
	HistoryMax() int
}

func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.itemboard.db")
	viper.SetDefault("history.max", 50)
	viper.SetConfigName(".itemboard") // .yaml is implicit
	viper.SetEnvPrefix("ITEMBOARD")
	viper.AutomaticEnv()

	if override := os.Getenv("ITEMBOARD_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("error reading config file: %v", err)
			return nil, err
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}

	return &fileConfig{Path: path, Max: viper.GetInt("history.max")}, nil
}

type fileConfig struct {
	Path string `json:"path"`
	Max  int    `json:"historyMax"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) HistoryMax() int {
	return f.Max
}
