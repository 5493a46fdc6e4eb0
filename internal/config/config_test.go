package config

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("PNG_DECODER_API_PORT", "")
		t.Setenv("PNG_DECODER_USER_AGENT", "")

		cfg := Load()
		assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "png-decoder", cfg.UserAgent)
	})

	t.Run("environment overrides", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("PNG_DECODER_API_PORT", "9090")
		t.Setenv("PNG_DECODER_USER_AGENT", "custom/1.0")

		cfg := Load()
		assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "custom/1.0", cfg.UserAgent)
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("LOG_LEVEL", "loud")
		t.Setenv("PNG_DECODER_API_PORT", "-1")

		cfg := Load()
		assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
		assert.Equal(t, 8080, cfg.Port)
	})
}
