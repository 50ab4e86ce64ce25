// Package config loads runtime configuration for ledgerctl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see LoadFile).
//  3. Environment variables (see ApplyEnv).
//  4. Command-line flags, applied by the CLI, which override everything.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJhbGciOi...",
//	  "principal": "alice",
//	  "secret_key": "secretKey",
//	  "token_ttl": "1h",
//	  "timeout": "10s",
//	  "output": "table"
//	}
package config
