package config

import "time"

// Config holds runtime settings for ledgerctl.
//
// Fields:
//   - ServerEndpointAddr: host:port of the ledger gRPC endpoint.
//   - AccessToken: bearer token sent with every call.
//   - Principal / SecretKey / TokenTTL: used by "ledgerctl token" to sign a
//     development token when the shared secret is known.
//   - Timeout: deadline of a single call.
//   - Output: "table" or "json".
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	Principal          string
	SecretKey          string
	TokenTTL           time.Duration
	Timeout            time.Duration
	Output             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AccessToken = ""
	c.Principal = ""
	c.SecretKey = "secretKey"
	c.TokenTTL = 60 * time.Minute
	c.Timeout = 10 * time.Second
	c.Output = "table"
}

// Environment variables read by ApplyEnv.
const (
	EnvAddr      = "LEDGER_ADDR"
	EnvToken     = "LEDGER_TOKEN"
	EnvPrincipal = "LEDGER_PRINCIPAL"
	EnvSecret    = "LEDGER_SECRET"
	EnvOutput    = "LEDGER_OUTPUT"
)

// ApplyEnv overlays non-empty environment values. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	for _, kv := range []struct {
		key string
		dst *string
	}{
		{EnvAddr, &c.ServerEndpointAddr},
		{EnvToken, &c.AccessToken},
		{EnvPrincipal, &c.Principal},
		{EnvSecret, &c.SecretKey},
		{EnvOutput, &c.Output},
	} {
		if v := getenv(kv.key); v != "" {
			*kv.dst = v
		}
	}
}
