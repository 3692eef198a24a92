package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func Test_NewConfig_defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	c := NewConfig()

	if c.Cache.Dir == "" || !strings.HasSuffix(c.Cache.Dir, "genomelift") {
		t.Errorf("default cache dir = %q, want a genomelift directory", c.Cache.Dir)
	}
	if c.Timeout() != 300*time.Second {
		t.Errorf("default timeout = %s, want 300s", c.Timeout())
	}
	if c.Web.BaseURL != "https://genome.ucsc.edu" {
		t.Errorf("default web base URL = %q", c.Web.BaseURL)
	}
	if c.Web.MinMatch != 0.95 {
		t.Errorf("default min match = %v, want 0.95", c.Web.MinMatch)
	}
}

func Test_NewConfig_overrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("cache.dir", "/tmp/chains")
	viper.Set("fetch.timeout-seconds", 10)
	viper.Set("web.base-url", "http://localhost:8080")
	viper.Set("web.min-match", 0.1)

	c := NewConfig()

	if c.Cache.Dir != "/tmp/chains" {
		t.Errorf("cache dir = %q, want /tmp/chains", c.Cache.Dir)
	}
	if c.Timeout() != 10*time.Second {
		t.Errorf("timeout = %s, want 10s", c.Timeout())
	}
	if c.Web.BaseURL != "http://localhost:8080" {
		t.Errorf("web base URL = %q", c.Web.BaseURL)
	}
	if c.Web.MinMatch != 0.1 {
		t.Errorf("min match = %v, want 0.1", c.Web.MinMatch)
	}
}
