package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	LogLevel  zerolog.Level
	Port      int
	UserAgent string
}

// Load reads an optional .env file and then the process environment. Flags
// set on the command line take precedence over what is returned here.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	cfg := Config{
		LogLevel:  zerolog.InfoLevel,
		Port:      8080,
		UserAgent: "png-decoder",
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if level, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			cfg.LogLevel = level
		} else {
			log.Warn().Str("LOG_LEVEL", v).Msg("Ignoring invalid log level")
		}
	}
	if v := os.Getenv("PNG_DECODER_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Port = port
		} else {
			log.Warn().Str("PNG_DECODER_API_PORT", v).Msg("Ignoring invalid port")
		}
	}
	if v := os.Getenv("PNG_DECODER_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	return cfg
}

// SetupLogging sends human-readable logs to stderr at the configured level.
func SetupLogging(level zerolog.Level) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	zerolog.SetGlobalLevel(level)
}
