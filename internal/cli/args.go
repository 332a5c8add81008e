package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mongo-mcp/mcp/internal/config"
)

// osExit is a variable that can be mocked in tests
var osExit = os.Exit

const helpText = `mongo-mcp - MongoDB Model Context Protocol Server

Usage:
  mongo-mcp [OPTIONS]

Options:
  -h, --help                  Show this help message
  -v, --version               Show version information
  --mongo-url <URL>           MongoDB connection string (overrides MONGO_URL)
  --db-name <NAME>            Database name (overrides DB_NAME)
  --read-only <BOOL>          Register only read tools (overrides MONGO_READ_ONLY)
  --transport <MODE>          stdio or http (overrides MONGO_MCP_TRANSPORT)
  --env-file <PATH>           KEY=value file loaded before the environment is read (default: .env)

  Value flags accept both "--flag value" and "--flag=value".

Required Environment Variables:
  MONGO_URL       MongoDB connection string
  DB_NAME         Database name

Optional Environment Variables:
  MONGO_READ_ONLY             Enable read-only mode (default: false)
  MONGO_LOG_LEVEL             debug, info, notice, warning, error, critical, alert, emergency (default: info)
  MONGO_LOG_FORMAT            text or json (default: text)
  MONGO_MCP_TRANSPORT         stdio or http (default: stdio)
  MONGO_MCP_HTTP_HOST         HTTP bind host (default: 127.0.0.1)
  MONGO_MCP_HTTP_PORT         HTTP port (default: 8080)
  MONGO_MCP_SHUTDOWN_TIMEOUT  Time allowed for in-flight tool calls on shutdown (default: 10s)
  MONGO_CONNECT_TIMEOUT       Initial connection timeout (default: 10s)
  MONGO_MCP_ENV_FILE          Path of the env file (default: .env)

Examples:
  # Using environment variables
  MONGO_URL=mongodb://localhost:27017 DB_NAME=shop mongo-mcp

  # Using CLI flags (takes precedence over environment variables)
  mongo-mcp --mongo-url mongodb://localhost:27017 --db-name shop --read-only true
`

// valueFlags are configuration flags that take a value; they are validated here and
// parsed by ParseConfigFlags.
var valueFlags = []string{"--mongo-url", "--db-name", "--read-only", "--transport", "--env-file"}

// isInlineValueFlag matches the --flag=value form of a value flag.
func isInlineValueFlag(arg string) bool {
	name, _, found := strings.Cut(arg, "=")
	return found && isValueFlag(name)
}

func isValueFlag(arg string) bool {
	for _, f := range valueFlags {
		if arg == f {
			return true
		}
	}
	return false
}

// HandleArgs processes command-line arguments for version and help flags.
// It exits the program after displaying the requested information.
// If unknown flags are encountered, it prints an error message and exits.
// Known configuration flags are skipped so ParseConfigFlags can handle them.
func HandleArgs(version string) {
	if len(os.Args) <= 1 {
		return
	}

	flags := make(map[string]bool)
	var err error
	i := 1 // os.Args[0] is the program name

	for i < len(os.Args) {
		arg := os.Args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags["help"] = true
			i++
		case arg == "-v" || arg == "--version":
			flags["version"] = true
			i++
		case isInlineValueFlag(arg):
			i++
		case isValueFlag(arg):
			if i+1 >= len(os.Args) {
				err = fmt.Errorf("%s requires a value", arg)
				break
			}
			nextArg := os.Args[i+1]
			if strings.HasPrefix(nextArg, "--") {
				err = fmt.Errorf("%s requires a value (got flag %s instead)", arg, nextArg)
				break
			}
			i += 2
		case arg == "--":
			i = len(os.Args)
		default:
			err = fmt.Errorf("unknown flag or argument: %s", arg)
			i++
		}
		if err != nil {
			break
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		osExit(1)
	}

	if flags["help"] {
		fmt.Print(helpText)
		osExit(0)
	}

	if flags["version"] {
		fmt.Printf("mongo-mcp version: %s\n", version)
		osExit(0)
	}
}

// ParseConfigFlags parses the configuration flags in args (without the program name)
// into CLI overrides. Unset flags stay empty so environment values apply.
func ParseConfigFlags(args []string) (*config.CLIOverrides, error) {
	fs := flag.NewFlagSet("mongo-mcp", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	overrides := &config.CLIOverrides{}
	fs.StringVar(&overrides.MongoURL, "mongo-url", "", "MongoDB connection string")
	fs.StringVar(&overrides.DBName, "db-name", "", "Database name")
	fs.StringVar(&overrides.ReadOnly, "read-only", "", "Register only read tools")
	fs.StringVar(&overrides.TransportMode, "transport", "", "stdio or http")
	fs.StringVar(&overrides.EnvFile, "env-file", "", "KEY=value file loaded before the environment")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return overrides, nil
}
