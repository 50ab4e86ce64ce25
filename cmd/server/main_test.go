package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun_ReportsConfigError(t *testing.T) {
	err := run(context.Background(), []string{"-c", "/does/not/exist.json"})
	require.ErrorContains(t, err, "read config")
}

func TestRun_ReportsServeError(t *testing.T) {
	err := run(context.Background(), []string{"-a", "256.0.0.1:bad", "-m", "", "-l", "error"})
	require.Error(t, err)
}

func TestRun_CleanShutdown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, run(ctx, []string{"-a", "127.0.0.1:0", "-m", "", "-l", "error"}))
}
