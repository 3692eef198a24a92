// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// CacheSettings control where downloaded chain files are kept
type CacheSettings struct {
	// the directory downloaded chain files are cached in
	Dir string `mapstructure:"dir"`
}

// FetchSettings control chain file downloads
type FetchSettings struct {
	// seconds before a chain file download is abandoned
	TimeoutSeconds int `mapstructure:"timeout-seconds"`
}

// WebSettings configure the hgLiftOver cross-check backend
type WebSettings struct {
	// base URL of the UCSC genome browser
	BaseURL string `mapstructure:"base-url"`

	// minimum ratio of bases that must remap
	MinMatch float64 `mapstructure:"min-match"`
}

// Config is the root-level settings struct and is a mix of settings
// available in a genomelift.yaml and those from the command line
type Config struct {
	// chain file cache settings
	Cache CacheSettings `mapstructure:"cache"`
	// download settings
	Fetch FetchSettings `mapstructure:"fetch"`
	// web backend settings
	Web WebSettings `mapstructure:"web"`
}

// Timeout is the fetch timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// NewConfig returns a new Config struct populated by Viper settings
// (either from a local genomelift.yaml or command line arguments),
// with defaults for anything left unset
func NewConfig() Config {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings: %v", err)
	}

	if c.Cache.Dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		c.Cache.Dir = filepath.Join(base, "genomelift")
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 300
	}
	if c.Web.BaseURL == "" {
		c.Web.BaseURL = "https://genome.ucsc.edu"
	}
	if c.Web.MinMatch == 0 {
		c.Web.MinMatch = 0.95
	}

	return c
}
