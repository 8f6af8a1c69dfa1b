package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	sawmcp "github.com/sawmcp/sqlanywhere-mcp"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func runServe() error {
	ctx := context.Background()

	// 1. Load ServerConfig (file is optional; env overrides file)
	serverConfig, err := loadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup logger. Stdio transport carries the protocol on stdout, so
	// logs always go to stderr (or a file) in that mode.
	logger := setupLogger(serverConfig.Logging, serverConfig.Server.Transport)

	// 3. Resolve connection string, prompting for credentials if absent
	conn := serverConfig.Connection
	if conn.User == "" && conn.ConnString == "" {
		conn.User = promptInput("Username: ")
	}
	if conn.Password == "" && conn.ConnString == "" {
		conn.Password = promptPassword("Password: ")
	}
	connString, err := conn.Resolve(logger)
	if err != nil {
		return err
	}

	// 4. Create SQLAnywhereMcp instance
	saw, err := sawmcp.New(ctx, connString, serverConfig.Config, logger)
	if err != nil {
		return fmt.Errorf("failed to create SQLAnywhereMcp: %w", err)
	}
	defer saw.Close()

	// 5. Test database connection
	logger.Info().Msg("testing database connection")
	if err := saw.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("database connection test failed")
		return fmt.Errorf("database connection test failed: %w", err)
	}
	logger.Info().
		Strs("authorized_owners", saw.AuthorizedOwners()).
		Msg("database connection test successful")

	// 6. Create MCP server with initialize lifecycle logging
	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer("sawmcp", version,
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)

	sawmcp.RegisterMCPTools(mcpServer, saw)

	// 7. Serve over the configured transport
	if strings.EqualFold(serverConfig.Server.Transport, "http") {
		return serveHTTP(mcpServer, serverConfig, logger)
	}
	logger.Info().Msg("starting sawmcp server on stdio")
	return server.ServeStdio(mcpServer)
}

func serveHTTP(mcpServer *server.MCPServer, serverConfig *sawmcp.ServerConfig, logger zerolog.Logger) error {
	if serverConfig.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 for http transport")
	}

	addr := fmt.Sprintf(":%d", serverConfig.Server.Port)
	mux := http.NewServeMux()

	// Health check endpoint (process liveness only, not DB connectivity)
	if serverConfig.Server.HealthCheckEnabled {
		if serverConfig.Server.HealthCheckPath == "" {
			return fmt.Errorf("server.health_check_path must be set when health_check_enabled is true")
		}
		mux.HandleFunc(serverConfig.Server.HealthCheckPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Start() does NOT register the handler when a custom *http.Server is
	// provided via WithStreamableHTTPServer, so register it here.
	mux.Handle("/mcp", streamableServer)

	logger.Info().Int("port", serverConfig.Server.Port).Msg("starting sawmcp server on http")
	return streamableServer.Start(addr)
}

// loadServerConfig reads the config file when present and layers SQLANYWHERE_*
// environment variables on top. A missing file is not an error; the server
// can run entirely from the environment.
func loadServerConfig() (*sawmcp.ServerConfig, error) {
	config := &sawmcp.ServerConfig{}

	configPath := os.Getenv("SAWMCP_CONFIG_PATH")
	if configPath == "" {
		configPath = ".sawmcp/config.json"
	}
	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	mergeConnection(&config.Connection, sawmcp.ConnectionFromEnv())
	if env := sawmcp.SecurityFromEnv(); len(env.AuthorizedOwners) > 0 {
		config.Security.AuthorizedOwners = env.AuthorizedOwners
	}
	return config, nil
}

// mergeConnection overlays non-zero env values onto the file config.
func mergeConnection(dst *sawmcp.ConnectionConfig, env sawmcp.ConnectionConfig) {
	if env.ConnString != "" {
		dst.ConnString = env.ConnString
	}
	if env.Driver != "" {
		dst.Driver = env.Driver
	}
	if env.Host != "" {
		dst.Host = env.Host
	}
	if env.Port != 0 {
		dst.Port = env.Port
	}
	if env.Database != "" {
		dst.Database = env.Database
	}
	if env.User != "" {
		dst.User = env.User
	}
	if env.Password != "" {
		dst.Password = env.Password
	}
	if env.ServerName != "" {
		dst.ServerName = env.ServerName
	}
	if env.UseTCP {
		dst.UseTCP = true
	}
	if env.Encrypt {
		dst.Encrypt = true
	}
}

func setupLogger(config sawmcp.LoggingConfig, transport string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var output io.Writer = os.Stderr
	if config.Output == "stdout" && !strings.EqualFold(transport, "stdio") {
		output = os.Stdout
	} else if config.Output != "" && config.Output != "stderr" && config.Output != "stdout" {
		f, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			output = f
		}
	}

	if config.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func promptInput(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var input string
	fmt.Scanln(&input)
	return input
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return ""
	}
	return string(password)
}
