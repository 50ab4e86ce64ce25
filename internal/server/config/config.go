// Package config handles configuration for the ledger server, including
// defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the ledger server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps the ledger in memory only.
//   - SecretKey: HMAC secret for verifying access tokens (HS256).
//   - BootstrapAdmins: principals granted the admin role at start.
//   - MetricsAddr: bind address of the Prometheus endpoint, empty disables it.
//   - LogLevel / LogFormat: slog level and handler ("json" or "text").
//   - S3*: S3-compatible backend receiving ledger exports.
//   - ArchivePrefix: key prefix of exported ledger snapshots.
type Config struct {
	EndpointAddrGRPC string
	DatabaseDSN      string
	SecretKey        string
	BootstrapAdmins  []string
	MetricsAddr      string
	LogLevel         string
	LogFormat        string
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	ArchivePrefix    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.BootstrapAdmins = nil
	c.MetricsAddr = ":9090"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "ledger-archive"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.ArchivePrefix = "ledger"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags. args
// excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
