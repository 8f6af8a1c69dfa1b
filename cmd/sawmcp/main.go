package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "doctor":
		if err := runDoctor(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("sawmcp - SQL Anywhere MCP Server (read-only)")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sawmcp serve     Start the MCP server (stdio by default)")
	fmt.Println("  sawmcp doctor    Validate configuration and connection settings")
	fmt.Println("  sawmcp --help    Show this help message")
}
