package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigEnabled(t *testing.T) {
	require.False(t, Config{}.Enabled())
	require.True(t, Config{Otlp: OtlpConfig{
		Traces: OtlpConnConfig{HttpEndpoint: "http://localhost:4318/v1/traces"},
	}}.Enabled())
	require.Equal(t, "grpc", OtlpConnConfig{GrpcEndpoint: "http://localhost:4317"}.transport())
	require.Equal(t, "http", OtlpConnConfig{}.transport())
}

func TestSetupDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), "test", Config{})
	require.NoError(t, err)
	require.False(t, tel.Enabled())
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupFromEnvWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "telemetry.json5"))
	if statErr == nil {
		t.Skip("a telemetry.json5 exists above the temp dir")
	}

	tel, err := SetupFromEnv(context.Background(), "test")
	require.NoError(t, err)
	require.False(t, tel.Enabled())
}

func TestInitSlog(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	InitSlog(&buf, false)
	slog.Debug("hidden")
	slog.Info("shown", "game", "slope")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "slope")

	buf.Reset()
	InitSlog(&buf, true)
	slog.Debug("visible")
	require.Contains(t, buf.String(), "visible")
}
