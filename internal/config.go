package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

const (
	BackendXML    = "xml"
	BackendBadger = "badger"
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	ChatsFilepath     string        `env:"CHATS_FILEPATH,default=./vars/dev/chats.xml"`
	ChatStoreBackend  string        `env:"CHAT_STORE_BACKEND,default=xml"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,default=./vars/dev/badger"`
	LayoutFilepath    string        `env:"LAYOUT_FILEPATH,default=./configs/layout.yaml"`
	PollInterval      time.Duration `env:"POLL_INTERVAL,default=500ms"`
	PageSize          int           `env:"PAGE_SIZE,default=5"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,default=2000"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=8h"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	SearchLimit       int           `env:"SEARCH_LIMIT,default=10"`
	LogLevel          string        `env:"LOG_LEVEL,default=WARN"`
	Colours           bool          `env:"COLOURS,default=true"`
	DebugPort         int           `env:"DEBUG_PORT,default=0"`
	HealthInterval    time.Duration `env:"HEALTH_INTERVAL,default=1m"`
}

// LoadConfig decodes the environment and checks the values env tags cannot express.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.ChatStoreBackend != BackendXML && c.ChatStoreBackend != BackendBadger {
		return fmt.Errorf("CHAT_STORE_BACKEND must be %q or %q, got %q", BackendXML, BackendBadger, c.ChatStoreBackend)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", c.MaxContentLength)
	}
	if c.HealthInterval < 0 {
		return fmt.Errorf("HEALTH_INTERVAL cannot be negative, got %s", c.HealthInterval)
	}
	if c.DebugPort < 0 || c.DebugPort > 65535 {
		return fmt.Errorf("DEBUG_PORT must be between 0 and 65535, got %d", c.DebugPort)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	return nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
