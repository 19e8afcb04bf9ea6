// Package config loads the drawchaind toml configuration.
package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	tml "github.com/BurntSushi/toml"
)

// Config is the daemon configuration. DeckSize and the authority identity
// are construction-time parameters: they freeze into chain state the first
// time a home directory is used.
type Config struct {
	Home       string `toml:"home"`
	ListenAddr string `toml:"listen_addr"`
	Transport  string `toml:"transport"` // socket|grpc

	DeckSize        int    `toml:"deck_size"`
	Authority       string `toml:"authority"`
	AuthorityPubKey string `toml:"authority_pubkey"` // hex, 32 bytes
}

func Default() Config {
	return Config{
		Home:       ".drawchain",
		ListenAddr: "tcp://127.0.0.1:26658",
		Transport:  "socket",
		DeckSize:   52,
	}
}

// Load reads a toml file over the defaults. An empty path returns the
// defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := tml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// AuthorityKeyBytes decodes the configured authority pubkey.
func (c Config) AuthorityKeyBytes() ([]byte, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.AuthorityPubKey)), "0x")
	if s == "" {
		return nil, fmt.Errorf("missing authority_pubkey")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid authority_pubkey: %w", err)
	}
	return b, nil
}
