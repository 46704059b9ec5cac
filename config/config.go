package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the signing credentials and listen address. It is built once
// at startup and passed down; nothing reads the environment after Load.
type Config struct {
	AppID          string
	AppCertificate string
	Port           string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file loaded")
	}

	cfg := Config{
		AppID:          os.Getenv("APP_ID"),
		AppCertificate: os.Getenv("APP_CERTIFICATE"),
		Port:           os.Getenv("PORT"),
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}

	if cfg.AppID == "" || cfg.AppCertificate == "" {
		logrus.Warn("APP_ID or APP_CERTIFICATE not set; token generation will fail")
	}

	return cfg
}
