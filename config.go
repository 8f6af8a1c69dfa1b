package sawmcp

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Config is the base configuration used by library mode via New().
type Config struct {
	Security     SecurityConfig    `json:"security"`
	Query        QueryConfig       `json:"query"`
	ErrorPrompts []ErrorPromptRule `json:"error_prompts"`
	Redaction    []RedactionRule   `json:"redaction"`
}

// ServerConfig embeds Config and adds server-only fields for CLI mode.
type ServerConfig struct {
	Config
	Connection ConnectionConfig `json:"connection"`
	Server     ServerSettings   `json:"server"`
	Logging    LoggingConfig    `json:"logging"`
}

// SecurityConfig holds the authorization boundary. Read once at startup,
// immutable afterwards; these are security-critical invariants, not
// cosmetic defaults.
type SecurityConfig struct {
	// AuthorizedOwners is the allowlist of owners whose objects may be
	// introspected or queried. Empty falls back to the documented default
	// (monitor, ExtensionsUser).
	AuthorizedOwners []string `json:"authorized_owners"`
}

// QueryConfig holds query execution settings.
type QueryConfig struct {
	DefaultRowLimit        int           `json:"default_row_limit"`        // default 1000
	MaxRowLimit            int           `json:"max_row_limit"`            // default 10000
	DefaultTimeoutSeconds  int           `json:"default_timeout_seconds"`  // default 30
	CatalogTimeoutSeconds  int           `json:"catalog_timeout_seconds"`  // default 10
	MaxSQLLength           int           `json:"max_sql_length"`           // default 10000
	MaxConcurrentQueries   int           `json:"max_concurrent_queries"`   // default 4
	TimeoutRules           []TimeoutRule `json:"timeout_rules"`
}

// TimeoutRule maps a SQL regex pattern to a specific timeout.
type TimeoutRule struct {
	Pattern        string `json:"pattern"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ErrorPromptRule maps an error-message regex to a guidance suggestion
// appended to matching errors.
type ErrorPromptRule struct {
	Pattern    string `json:"pattern"`
	Suggestion string `json:"suggestion"`
}

// RedactionRule defines a regex-based replacement applied to string cells
// of query results.
type RedactionRule struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// ServerSettings holds transport settings for CLI mode.
type ServerSettings struct {
	// Transport is "stdio" (default) or "http".
	Transport          string `json:"transport"`
	Port               int    `json:"port"`
	HealthCheckEnabled bool   `json:"health_check_enabled"`
	HealthCheckPath    string `json:"health_check_path"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stderr (default), stdout, or file path
}

// ConnectionConfig holds SQL Anywhere ODBC connection parameters.
// A non-empty ConnString overrides the individual fields.
type ConnectionConfig struct {
	ConnString string `json:"conn_string,omitempty"`
	Driver     string `json:"driver"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Database   string `json:"database"`
	User       string `json:"user"`
	Password   string `json:"password,omitempty"`
	ServerName string `json:"server_name"`
	UseTCP     bool   `json:"use_tcp"`
	Encrypt    bool   `json:"encrypt"`
}

// Resolve builds the ODBC connection string. The database name is the one
// required field; a missing ServerName logs a warning but does not block
// startup (backward-compatibility allowance).
func (c ConnectionConfig) Resolve(logger zerolog.Logger) (string, error) {
	if c.ConnString != "" {
		return c.ConnString, nil
	}
	if c.Database == "" {
		return "", fmt.Errorf("connection: database name (or a full connection string) must be provided")
	}

	driver := c.Driver
	if driver == "" {
		driver = "SQL Anywhere 17"
	}
	port := c.Port
	if port == 0 {
		port = 2638
	}

	// SQL Anywhere uses DBN, not DATABASE.
	parts := []string{
		fmt.Sprintf("DRIVER={%s}", driver),
		fmt.Sprintf("DBN=%s", c.Database),
	}
	if c.User != "" {
		parts = append(parts, fmt.Sprintf("UID=%s", c.User))
	}
	if c.Password != "" {
		parts = append(parts, fmt.Sprintf("PWD=%s", c.Password))
	}
	if c.ServerName != "" {
		parts = append(parts, fmt.Sprintf("ServerName=%s", c.ServerName))
	} else {
		logger.Warn().Msg("ServerName is not set; set connection.server_name or use a complete connection string")
	}
	if c.UseTCP && c.Host != "" {
		parts = append(parts, fmt.Sprintf("Host=%s:%d", c.Host, port))
	}
	if c.Encrypt {
		parts = append(parts, "ENCRYPT=YES")
	}
	return strings.Join(parts, ";"), nil
}

// ConnectionFromEnv reads connection parameters from SQLANYWHERE_*
// environment variables, matching the names the server has always used.
func ConnectionFromEnv() ConnectionConfig {
	port, _ := strconv.Atoi(os.Getenv("SQLANYWHERE_PORT"))
	return ConnectionConfig{
		ConnString: os.Getenv("SQLANYWHERE_CONNECTION_STRING"),
		Driver:     os.Getenv("SQLANYWHERE_DRIVER"),
		Host:       os.Getenv("SQLANYWHERE_HOST"),
		Port:       port,
		Database:   os.Getenv("SQLANYWHERE_DATABASE"),
		User:       os.Getenv("SQLANYWHERE_USER"),
		Password:   os.Getenv("SQLANYWHERE_PASSWORD"),
		ServerName: os.Getenv("SQLANYWHERE_SERVER_NAME"),
		UseTCP:     envBool("SQLANYWHERE_USE_TCP"),
		Encrypt:    envBool("SQLANYWHERE_ENCRYPT"),
	}
}

// SecurityFromEnv reads the authorized owner list from
// SQLANYWHERE_AUTHORIZED_USERS (comma-separated).
func SecurityFromEnv() SecurityConfig {
	owners := os.Getenv("SQLANYWHERE_AUTHORIZED_USERS")
	if owners == "" {
		return SecurityConfig{}
	}
	return SecurityConfig{AuthorizedOwners: strings.Split(owners, ",")}
}

func envBool(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// applyDefaults fills zero values with the documented defaults. Negative
// values are invalid and cause New to panic.
func (q *QueryConfig) applyDefaults() {
	if q.DefaultRowLimit == 0 {
		q.DefaultRowLimit = 1000
	}
	if q.MaxRowLimit == 0 {
		q.MaxRowLimit = 10000
	}
	if q.DefaultTimeoutSeconds == 0 {
		q.DefaultTimeoutSeconds = 30
	}
	if q.CatalogTimeoutSeconds == 0 {
		q.CatalogTimeoutSeconds = 10
	}
	if q.MaxSQLLength == 0 {
		q.MaxSQLLength = 10000
	}
	if q.MaxConcurrentQueries == 0 {
		q.MaxConcurrentQueries = 4
	}
}
