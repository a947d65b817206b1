package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_STORE_BACKEND picks the chat store under test, "xml" or "badger"
	StoreBackend string        `envconfig:"E2E_STORE_BACKEND" default:"xml"`
	PollInterval time.Duration `envconfig:"E2E_POLL_INTERVAL" default:"20ms"`
	// E2E_COLOURS enables colorized step headers
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
