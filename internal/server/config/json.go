package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/workcredits/internal/flagx"
)

// JsonConfig is the on-disk shape of the server configuration. Only keys
// present in the file override the current values.
type JsonConfig struct {
	EndpointAddrGRPC *string  `json:"endpoint_addr_grpc"`
	DatabaseDSN      *string  `json:"database_dsn"`
	SecretKey        *string  `json:"secret_key"`
	BootstrapAdmins  []string `json:"bootstrap_admins"`
	MetricsAddr      *string  `json:"metrics_addr"`
	LogLevel         *string  `json:"log_level"`
	LogFormat        *string  `json:"log_format"`
	S3RootUser       *string  `json:"s3_root_user"`
	S3RootPassword   *string  `json:"s3_root_password"`
	S3Bucket         *string  `json:"s3_bucket"`
	S3Region         *string  `json:"s3_region"`
	S3BaseEndpoint   *string  `json:"s3_base_endpoint"`
	ArchivePrefix    *string  `json:"archive_prefix"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Without either flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.BootstrapAdmins != nil {
		config.BootstrapAdmins = c.BootstrapAdmins
	}
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.ArchivePrefix, c.ArchivePrefix)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
