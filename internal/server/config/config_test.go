package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Empty(t, c.BootstrapAdmins)
	assert.Equal(t, ":9090", c.MetricsAddr)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "admin", c.S3RootUser)
	assert.Equal(t, "secretpassword", c.S3RootPassword)
	assert.Equal(t, "ledger-archive", c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
	assert.Equal(t, "ledger", c.ArchivePrefix)
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	c, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_grpc": "json:1",
		"secret_key":         "from-json",
		"bootstrap_admins":   []string{"root"},
	})

	c, err := LoadConfig([]string{"-c", path, "-a", "flag:2", "-test.v"})
	require.NoError(t, err)

	assert.Equal(t, "flag:2", c.EndpointAddrGRPC)
	assert.Equal(t, "from-json", c.SecretKey)
	assert.Equal(t, []string{"root"}, c.BootstrapAdmins)
	assert.Equal(t, "ledger", c.ArchivePrefix)
}

func TestLoadConfig_JSONSurvivesWithoutFlags(t *testing.T) {
	want := Config{
		EndpointAddrGRPC: "json:1",
		DatabaseDSN:      "postgres://ledger",
		SecretKey:        "from-json",
		BootstrapAdmins:  []string{"root", "ops"},
		MetricsAddr:      "",
		LogLevel:         "warn",
		LogFormat:        "text",
		S3RootUser:       "user",
		S3RootPassword:   "password",
		S3Bucket:         "bucket",
		S3Region:         "eu-west-1",
		S3BaseEndpoint:   "http://minio:9000",
		ArchivePrefix:    "snapshots",
	}
	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_grpc": want.EndpointAddrGRPC,
		"database_dsn":       want.DatabaseDSN,
		"secret_key":         want.SecretKey,
		"bootstrap_admins":   want.BootstrapAdmins,
		"metrics_addr":       want.MetricsAddr,
		"log_level":          want.LogLevel,
		"log_format":         want.LogFormat,
		"s3_root_user":       want.S3RootUser,
		"s3_root_password":   want.S3RootPassword,
		"s3_bucket":          want.S3Bucket,
		"s3_region":          want.S3Region,
		"s3_base_endpoint":   want.S3BaseEndpoint,
		"archive_prefix":     want.ArchivePrefix,
	})

	c, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(&want, c))
}

func TestLoadConfig_BadJSONFails(t *testing.T) {
	_, err := LoadConfig([]string{"-c", "/does/not/exist.json"})
	require.Error(t, err)
}
