package config

import (
	"flag"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{"SERVER_ADDRESS", "BASE_URL", "DATABASE_DSN", "FILE_STORAGE_PATH", "LOG_LEVEL", "CONFIG", "PROFILE_MODE"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnv {
		t.Setenv(name, "")
		//nolint // t.Setenv restores the original value on cleanup
		os.Unsetenv(name)
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		want              *ServerConfig
		env               map[string]string
		name              string
		configFileContent string
		args              []string
	}{
		{
			name: "defaults",
			want: &ServerConfig{
				RunAddr:         ":8080",
				RedirectBaseURL: "http://localhost:8080",
				LogLevel:        "info",
			},
		},
		{
			name: "flags",
			args: []string{"-a", ":9090", "-b", "https://sho.rt", "-d", "postgres://u:p@db/links", "-p"},
			want: &ServerConfig{
				RunAddr:         ":9090",
				RedirectBaseURL: "https://sho.rt",
				DatabaseDSN:     "postgres://u:p@db/links",
				LogLevel:        "info",
				ProfileMode:     true,
			},
		},
		{
			name: "env overrides flags",
			args: []string{"-b", "https://flag.example"},
			env:  map[string]string{"BASE_URL": "https://env.example", "LOG_LEVEL": "debug"},
			want: &ServerConfig{
				RunAddr:         ":8080",
				RedirectBaseURL: "https://env.example",
				LogLevel:        "debug",
			},
		},
		{
			name: "test configs merge",
			args: []string{"-a", ":9090"},
			configFileContent: `{
				"server_address": "localhost:7070",
				"base_url": "http://localhost",
				"database_dsn": "postgres://file@db/links",
				"file_storage_path": "/path/to/links.json",
				"profile_mode": true
			}`,
			want: &ServerConfig{
				RunAddr:         ":9090",
				RedirectBaseURL: "http://localhost",
				DatabaseDSN:     "postgres://file@db/links",
				FileStoragePath: "/path/to/links.json",
				LogLevel:        "info",
				ProfileMode:     true,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			args := tt.args
			if tt.configFileContent != "" {
				configFile, err := os.CreateTemp(t.TempDir(), "config-*.json")
				require.NoError(t, err)
				_, err = configFile.WriteString(tt.configFileContent)
				require.NoError(t, err)
				require.NoError(t, configFile.Close())

				args = append(args, "-c", configFile.Name())
				tt.want.Config = configFile.Name()
			}

			got, err := parse(flag.NewFlagSet("test", flag.ContinueOnError), args)
			require.NoError(t, err)

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFlags_BadConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-c", "/does/not/exist.json"})
	assert.Error(t, err)
}
