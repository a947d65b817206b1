package internal

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("AUTH_SECRET", "s3cret")

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal("s3cret", config.AuthSecret)
	req.Equal(BackendXML, config.ChatStoreBackend)
	req.Equal(500*time.Millisecond, config.PollInterval)
	req.Equal(5, config.PageSize)
	req.Equal(2000, config.MaxContentLength)
	req.Equal(8*time.Hour, config.AuthTokenDuration)
	req.Equal("*", config.CharReplacement)
	req.True(config.Colours)
	req.Zero(config.DebugPort)
	req.Equal(time.Minute, config.HealthInterval)
}

func TestLoadConfig_Overrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("CHAT_STORE_BACKEND", "badger")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("PAGE_SIZE", "3")

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal(BackendBadger, config.ChatStoreBackend)
	req.Equal(2*time.Second, config.PollInterval)
	req.Equal(3, config.PageSize)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "CHAT_STORE_BACKEND", "sqlite"},
		{"zero page size", "PAGE_SIZE", "0"},
		{"negative poll interval", "POLL_INTERVAL", "-1s"},
		{"multi character replacement", "CHARACTER_REPLACEMENT", "##"},
		{"port out of range", "DEBUG_PORT", "70000"},
		{"negative health interval", "HEALTH_INTERVAL", "-1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUTH_SECRET", "s3cret")
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_Requires_Secret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "placeholder")
	require.NoError(t, os.Unsetenv("AUTH_SECRET"))

	_, err := LoadConfig()

	require.Error(t, err)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("€")
	req.NoError(err)
	req.Equal('€', r)

	_, err = CharacterRune("")
	req.Error(err)
}
