package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
)

const (
	defaultRunAddr  = ":8080"
	defaultBaseURL  = "http://localhost:8080"
	defaultLogLevel = "info"
)

type ServerConfig struct {
	RunAddr         string `env:"SERVER_ADDRESS" json:"server_address"`
	RedirectBaseURL string `env:"BASE_URL" json:"base_url"`
	DatabaseDSN     string `env:"DATABASE_DSN" json:"database_dsn"`
	FileStoragePath string `env:"FILE_STORAGE_PATH" json:"file_storage_path"`
	LogLevel        string `env:"LOG_LEVEL" json:"log_level"`
	Config          string `env:"CONFIG" json:"-"`
	ProfileMode     bool   `env:"PROFILE_MODE" json:"profile_mode"`
}

// ParseFlags reads the command line, then environment variables, then the optional
// JSON config file. Values set by an earlier source win.
func ParseFlags() (*ServerConfig, error) {
	return parse(flag.NewFlagSet(os.Args[0], flag.ContinueOnError), os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) (*ServerConfig, error) {
	config := &ServerConfig{}

	fs.StringVar(&config.RunAddr, "a", defaultRunAddr, "address and port to run server")
	fs.StringVar(&config.RedirectBaseURL, "b", defaultBaseURL, "server URI prefix")
	fs.StringVar(&config.DatabaseDSN, "d", "", "Data Source Name (DSN)")
	fs.StringVar(&config.FileStoragePath, "f", "", "file storage path, used when no DSN is set")
	fs.StringVar(&config.LogLevel, "l", defaultLogLevel, "log level")
	fs.StringVar(&config.Config, "c", "", "path to JSON config file")
	fs.BoolVar(&config.ProfileMode, "p", false, "register pprof handlers")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("error parsing env variables: %w", err)
	}

	if config.Config == "" {
		return config, nil
	}

	fileConfig, err := readFile(config.Config)
	if err != nil {
		return nil, err
	}
	config.merge(fileConfig, set)

	return config, nil
}

func readFile(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	fileConfig := &ServerConfig{}
	if err := json.Unmarshal(data, fileConfig); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return fileConfig, nil
}

// merge fills from the file every field that was neither passed as a flag nor present
// in the environment.
func (c *ServerConfig) merge(file *ServerConfig, flagsSet map[string]bool) {
	fromFile := func(flagName, envName string) bool {
		if flagsSet[flagName] {
			return false
		}
		_, ok := os.LookupEnv(envName)
		return !ok
	}

	if fromFile("a", "SERVER_ADDRESS") && file.RunAddr != "" {
		c.RunAddr = file.RunAddr
	}
	if fromFile("b", "BASE_URL") && file.RedirectBaseURL != "" {
		c.RedirectBaseURL = file.RedirectBaseURL
	}
	if fromFile("d", "DATABASE_DSN") && file.DatabaseDSN != "" {
		c.DatabaseDSN = file.DatabaseDSN
	}
	if fromFile("f", "FILE_STORAGE_PATH") && file.FileStoragePath != "" {
		c.FileStoragePath = file.FileStoragePath
	}
	if fromFile("l", "LOG_LEVEL") && file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if fromFile("p", "PROFILE_MODE") {
		c.ProfileMode = c.ProfileMode || file.ProfileMode
	}
}
