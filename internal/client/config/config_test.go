package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 60*time.Minute, c.TokenTTL)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.Equal(t, "table", c.Output)
	assert.Empty(t, c.AccessToken)
}

func TestApplyEnv(t *testing.T) {
	var c Config
	c.LoadDefaults()

	env := map[string]string{
		EnvAddr:   "ledger:7000",
		EnvToken:  "tok",
		EnvOutput: "json",
	}
	c.ApplyEnv(func(k string) string { return env[k] })

	want := Config{}
	want.LoadDefaults()
	want.ServerEndpointAddr = "ledger:7000"
	want.AccessToken = "tok"
	want.Output = "json"

	assert.Empty(t, cmp.Diff(want, c))
}
