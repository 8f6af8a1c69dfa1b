package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	sawmcp "github.com/sawmcp/sqlanywhere-mcp"
)

func runDoctor() error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", ".sawmcp/config.json", "Path to configuration file")
	fs.Parse(os.Args[2:])

	useColor := isTTY(os.Stderr.Fd())
	return doctor(os.Stderr, useColor, *configPath)
}

func doctor(w io.Writer, useColor bool, configPath string) error {
	printBanner(w, useColor)
	fmt.Fprintf(w, "sawmcp %s\n\n", version)

	config, ok := doctorValidateConfig(w, useColor, configPath)
	if !ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'sawmcp doctor' again.")
		return nil
	}

	fmt.Fprintln(w)
	printResolvedSettings(w, useColor, config)
	return nil
}

// doctorValidateConfig loads and validates the config file, printing check results.
// Returns the parsed config and true if all checks passed.
func doctorValidateConfig(w io.Writer, useColor bool, configPath string) (*sawmcp.ServerConfig, bool) {
	allPassed := true

	// Check 1: Config file exists and is valid JSON. A missing file is fine
	// when the environment supplies the connection.
	config := &sawmcp.ServerConfig{}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			printCheck(w, useColor, true, fmt.Sprintf("Config file absent (%s), using environment only", configPath))
		} else {
			printCheck(w, useColor, false, fmt.Sprintf("Config file readable (%s): %v", configPath, err))
			return nil, false
		}
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("Config file readable (%s)", configPath))
		if err := json.Unmarshal(data, config); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("Config file is valid JSON: %v", err))
			return nil, false
		}
		printCheck(w, useColor, true, "Config file is valid JSON")
	}

	mergeConnection(&config.Connection, sawmcp.ConnectionFromEnv())
	if env := sawmcp.SecurityFromEnv(); len(env.AuthorizedOwners) > 0 {
		config.Security.AuthorizedOwners = env.AuthorizedOwners
	}

	// Check 2: a database name or full connection string is set
	if config.Connection.Database == "" && config.Connection.ConnString == "" {
		printCheck(w, useColor, false, "connection.database (or SQLANYWHERE_DATABASE / connection string) is set")
		allPassed = false
	} else if config.Connection.ConnString != "" {
		printCheck(w, useColor, true, "connection string is set")
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("connection.database is set (%s)", config.Connection.Database))
	}

	// Check 3: ServerName recommended
	if config.Connection.ConnString == "" && config.Connection.ServerName == "" {
		printCheck(w, useColor, true, "connection.server_name is unset (recommended but not required)")
	}

	// Check 4: http transport needs a port
	if strings.EqualFold(config.Server.Transport, "http") {
		if config.Server.Port <= 0 {
			printCheck(w, useColor, false, "server.port is > 0 (required for http transport)")
			allPassed = false
		} else {
			printCheck(w, useColor, true, fmt.Sprintf("server.port is > 0 (%d)", config.Server.Port))
		}
		if config.Server.HealthCheckEnabled && config.Server.HealthCheckPath == "" {
			printCheck(w, useColor, false, "health_check_path is set (required when health_check_enabled)")
			allPassed = false
		}
	}

	// Check 5: Regex patterns compile
	regexOK := true

	for i, rule := range config.ErrorPrompts {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("error_prompts[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	for i, rule := range config.Redaction {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("redaction[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	for i, rule := range config.Query.TimeoutRules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("timeout_rules[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	if regexOK {
		printCheck(w, useColor, true, "All regex patterns compile")
	}

	// Check 6: row limits are coherent
	q := config.Query
	if q.DefaultRowLimit < 0 || q.MaxRowLimit < 0 || (q.MaxRowLimit > 0 && q.DefaultRowLimit > q.MaxRowLimit) {
		printCheck(w, useColor, false, "query.default_row_limit is positive and <= query.max_row_limit")
		allPassed = false
	} else {
		printCheck(w, useColor, true, "query row limits are coherent")
	}

	return config, allPassed
}

// printCheck prints a colored check line.
func printCheck(w io.Writer, useColor bool, pass bool, msg string) {
	if pass {
		if useColor {
			fmt.Fprintf(w, "  \033[32m✓\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✓ %s\n", msg)
		}
	} else {
		if useColor {
			fmt.Fprintf(w, "  \033[31m✗\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}
}

// printResolvedSettings prints the effective security and transport settings
// so operators can see exactly what the server would run with.
func printResolvedSettings(w io.Writer, useColor bool, config *sawmcp.ServerConfig) {
	heading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "\033[1;36m%s\033[0m\n", title)
		} else {
			fmt.Fprintln(w, title)
		}
	}

	heading("Resolved Settings")
	fmt.Fprintln(w)

	owners := config.Security.AuthorizedOwners
	if len(owners) == 0 {
		fmt.Fprintln(w, "  Authorized owners: monitor, ExtensionsUser (defaults)")
	} else {
		fmt.Fprintf(w, "  Authorized owners: %s\n", strings.Join(owners, ", "))
	}

	transport := config.Server.Transport
	if transport == "" {
		transport = "stdio"
	}
	fmt.Fprintf(w, "  Transport: %s\n", transport)
	if strings.EqualFold(transport, "http") {
		fmt.Fprintf(w, "  MCP endpoint: http://localhost:%d/mcp\n", config.Server.Port)
	}
	fmt.Fprintln(w)

	heading("Agent Connection Snippet (stdio)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `  {
    "mcpServers": {
      "sqlanywhere": {
        "command": "sawmcp",
        "args": ["serve"],
        "env": {
          "SQLANYWHERE_DATABASE": "<dbname>",
          "SQLANYWHERE_USER": "<user>",
          "SQLANYWHERE_PASSWORD": "<password>"
        }
      }
    }
  }`)
}
