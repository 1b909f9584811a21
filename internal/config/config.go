// Package config loads the optional gforms.yaml file of the CLI.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "gforms.yaml"

// Config holds the CLI settings. Flags override it.
type Config struct {
	UserAgent      string        `mapstructure:"user_agent"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MeanDelay      time.Duration `mapstructure:"mean_delay"`
	EmulateHistory bool          `mapstructure:"emulate_history"`
	FillOptional   bool          `mapstructure:"fill_optional"`
	Redis          Redis         `mapstructure:"redis"`
	Metrics        Metrics       `mapstructure:"metrics"`
	Journal        Journal       `mapstructure:"journal"`
}

// Redis selects the Redis journal when Addr is set.
type Redis struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

// Metrics exposes /metrics on Addr when set.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// Journal controls how answers are recorded. Mask holds patterns of
// question names whose answers are replaced by a placeholder. Key, a base64
// AES-256 key, seals the answers; FallbackKeys open records sealed with
// previous keys.
type Journal struct {
	Mask         []string `mapstructure:"mask"`
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Keys decodes the encryption keys. active is nil when Key is empty.
func (j Journal) Keys() (active []byte, fallback [][]byte, err error) {
	if j.Key == "" {
		return nil, nil, nil
	}
	if active, err = base64.StdEncoding.DecodeString(j.Key); err != nil {
		return nil, nil, fmt.Errorf("journal key: %w", err)
	}
	for i, k := range j.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, nil, fmt.Errorf("journal fallback key %d: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Timeout:   30 * time.Second,
		MeanDelay: time.Minute,
	}
}

// Load reads path over the defaults. An empty path tries DefaultFile and
// returns the defaults when it does not exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a config document over the defaults.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
