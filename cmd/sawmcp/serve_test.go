package main

import (
	"bytes"
	"strings"
	"testing"

	sawmcp "github.com/sawmcp/sqlanywhere-mcp"
)

func TestLoadServerConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := validServerConfig()
	cfg.Connection.Host = "filehost"
	path := writeConfigFile(t, dir, cfg)

	t.Setenv("SAWMCP_CONFIG_PATH", path)
	t.Setenv("SQLANYWHERE_HOST", "envhost")
	t.Setenv("SQLANYWHERE_AUTHORIZED_USERS", "app,dbo")

	got, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Connection.Host != "envhost" {
		t.Errorf("env must override file host, got %q", got.Connection.Host)
	}
	if got.Connection.Database != "proddb" {
		t.Errorf("file values must survive when env is unset, got %q", got.Connection.Database)
	}
	if len(got.Security.AuthorizedOwners) != 2 || got.Security.AuthorizedOwners[0] != "app" {
		t.Errorf("env owners must override file, got %v", got.Security.AuthorizedOwners)
	}
}

func TestLoadServerConfigMissingFileIsFine(t *testing.T) {
	t.Setenv("SAWMCP_CONFIG_PATH", "/nonexistent/config.json")
	t.Setenv("SQLANYWHERE_DATABASE", "envdb")

	got, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Connection.Database != "envdb" {
		t.Errorf("expected env database, got %q", got.Connection.Database)
	}
}

func TestMergeConnectionBooleansOnlyTurnOn(t *testing.T) {
	t.Parallel()
	dst := sawmcp.ConnectionConfig{UseTCP: true, Encrypt: true}
	mergeConnection(&dst, sawmcp.ConnectionConfig{})
	if !dst.UseTCP || !dst.Encrypt {
		t.Errorf("empty env must not reset booleans: %+v", dst)
	}
}

func TestSetupLoggerStdioForcesStderr(t *testing.T) {
	t.Parallel()
	// Stdio transport owns stdout; a stdout logging config must not be
	// honored there. We can only assert it does not panic and produces a
	// working logger.
	logger := setupLogger(sawmcp.LoggingConfig{Level: "debug", Output: "stdout"}, "stdio")
	logger.Debug().Msg("probe")
}

func TestSetupLoggerLevels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := setupLogger(sawmcp.LoggingConfig{Level: "warn"}, "http").Output(&buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info must be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn must pass at warn level: %s", out)
	}
}
