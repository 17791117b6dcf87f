package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		DBDriver:      "sqlite",
		DBPath:        "./test.db",
		DBTimeout:     5 * time.Second,
		JWTSecret:     "secret",
		StorageDriver: "local",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "sqlite ok", mutate: func(c *Config) {}},
		{
			name: "mysql ok",
			mutate: func(c *Config) {
				c.DBDriver, c.DBHost, c.DBUser, c.DBName = "mysql", "localhost", "root", "social"
			},
		},
		{
			name:    "mysql missing host",
			mutate:  func(c *Config) { c.DBDriver = "mysql" },
			wantErr: "incomplete mysql database configuration",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.DBDriver = "oracle" },
			wantErr: `unsupported DB_DRIVER "oracle"`,
		},
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is not set",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.StorageDriver = "s3" },
			wantErr: "S3_BUCKET is required for s3 storage",
		},
		{
			name:    "gcs without bucket",
			mutate:  func(c *Config) { c.StorageDriver = "gcs" },
			wantErr: "GCS_BUCKET_NAME is required for gcs storage",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.DBTimeout = 0 },
			wantErr: "DB_TIMEOUT must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/social-test.db")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_TIMEOUT", "3s")
	t.Setenv("TRENDS_LIMIT", "5")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 3*time.Second, cfg.DBTimeout)
	assert.Equal(t, 5, cfg.TrendsLimit)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}
