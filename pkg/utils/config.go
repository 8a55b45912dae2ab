package utils

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Admin    AdminConfig
	Loader   LoaderConfig
}

type AppConfig struct {
	Name    string `validate:"required"`
	Debug   bool
	LogPath string
}

// DatabaseConfig is the restricted application role used by load, verify
// and export. It must never carry DDL rights.
type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	Name     string `validate:"required"`
	User     string `validate:"required"`
	Password string
	MaxConns int32 `validate:"gte=1"`
}

// AdminConfig is the administrative credential used by provision, migrate
// and teardown. Database is the maintenance database to connect to when the
// target database does not exist yet.
type AdminConfig struct {
	User     string `validate:"required"`
	Password string
	Database string `validate:"required"`
}

type LoaderConfig struct {
	BatchSize int     `validate:"gte=1"`
	RatingMin float64 `validate:"gte=0"`
	RatingMax float64 `validate:"gtefield=RatingMin"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "movie-ratings")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("ADMIN_USER", "postgres")
	viper.SetDefault("ADMIN_DB", "postgres")
	viper.SetDefault("LOAD_BATCH_SIZE", 500)
	viper.SetDefault("RATING_MIN", 0.5)
	viper.SetDefault("RATING_MAX", 5.0)

	// A missing .env is fine, the environment alone can carry the config.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Admin: AdminConfig{
			User:     viper.GetString("ADMIN_USER"),
			Password: viper.GetString("ADMIN_PASS"),
			Database: viper.GetString("ADMIN_DB"),
		},
		Loader: LoaderConfig{
			BatchSize: viper.GetInt("LOAD_BATCH_SIZE"),
			RatingMin: viper.GetFloat64("RATING_MIN"),
			RatingMax: viper.GetFloat64("RATING_MAX"),
		},
	}

	if errs := ValidateStruct(config); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", FormatValidationErrors(errs))
	}

	return config, nil
}
