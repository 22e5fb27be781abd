package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const localFrontendOrigin = "http://localhost:3000"

type Config struct {
	Port            string
	MongoURI        string
	MongoDBName     string
	MongoTimeout    time.Duration
	MongoMaxPool    uint64
	Environment     string
	FrontendOrigin  string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads settings from the environment, falling back to envFile (a
// dotenv file) and then to defaults. A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("port", "8000")
	v.SetDefault("mongodb_db_name", "task_db")
	v.SetDefault("mongodb_timeout", "10s")
	v.SetDefault("mongodb_max_pool_size", 10)
	v.SetDefault("environment", "development")
	v.SetDefault("frontend_origin", localFrontendOrigin)
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", "10s")
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var pathErr *fs.PathError
			if !errors.As(err, &pathErr) {
				return Config{}, fmt.Errorf("reading config %s: %w", envFile, err)
			}
		}
	}

	cfg := Config{
		Port:            v.GetString("port"),
		MongoURI:        v.GetString("mongodb_uri"),
		MongoDBName:     v.GetString("mongodb_db_name"),
		MongoTimeout:    v.GetDuration("mongodb_timeout"),
		MongoMaxPool:    v.GetUint64("mongodb_max_pool_size"),
		Environment:     v.GetString("environment"),
		FrontendOrigin:  v.GetString("frontend_origin"),
		LogLevel:        v.GetString("log_level"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}
	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGODB_URI is not set")
	}
	return cfg, nil
}

// AllowedOrigins lists the CORS origins: the local dev frontend plus the
// configured one.
func (c Config) AllowedOrigins() []string {
	origins := []string{localFrontendOrigin}
	if c.FrontendOrigin != "" && c.FrontendOrigin != localFrontendOrigin {
		origins = append(origins, c.FrontendOrigin)
	}
	return origins
}
