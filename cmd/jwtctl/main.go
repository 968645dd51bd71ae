// Command jwtctl issues, verifies and revokes tokens from the command line
// using the same configuration sources as the library: an optional YAML
// file, dotenv files and JWT_* environment variables.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"

	goJWT "github.com/MrEthical07/goJWT"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config    string   `short:"c" type:"existingfile" help:"YAML configuration file."`
	EnvFile   []string `name:"env-file" help:"Dotenv files loaded before the environment."`
	LogLevel  string   `name:"log-level" enum:"debug,info,warn,error" default:"warn" help:"Log level (${enum})."`
	LogFormat string   `name:"log-format" enum:"text,json" default:"text" help:"Log format (${enum})."`
}

// CLI is the root command.
type CLI struct {
	Globals

	Issue  IssueCmd  `cmd:"" help:"Issue a token for a subject."`
	Verify VerifyCmd `cmd:"" help:"Verify a token and print its claims."`
	Revoke RevokeCmd `cmd:"" help:"Revoke a token. Requires the blacklist."`
	Check  CheckCmd  `cmd:"" help:"Validate the configuration and run an issue/verify round trip."`
	Bench  BenchCmd  `cmd:"" help:"Measure issue, verify and revoke throughput."`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	cliCtx := kong.Parse(&cli,
		kong.Name("jwtctl"),
		kong.Description("Issue, verify and revoke JSON Web Tokens."),
		kong.UsageOnError(),
	)

	logger := goJWT.NewLogger(goJWT.LoggingConfig{Level: cli.LogLevel, Format: cli.LogFormat}, os.Stderr)

	cliCtx.BindTo(ctx, (*context.Context)(nil))
	cliCtx.BindTo(os.Stdout, (*io.Writer)(nil))
	cliCtx.BindTo(os.Stdin, (*io.Reader)(nil))
	cliCtx.Bind(&cli.Globals)
	cliCtx.Bind(logger)

	if err := cliCtx.Run(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load resolves the configuration: defaults, then the YAML file, then the
// dotenv files and environment.
func (g *Globals) load() (goJWT.Config, error) {
	cfg := goJWT.DefaultConfig()
	if g.Config != "" {
		fileCfg, err := goJWT.LoadFile(g.Config)
		if err != nil {
			return goJWT.Config{}, err
		}
		cfg = fileCfg
	}
	return goJWT.LoadEnv(cfg, g.EnvFile...)
}

// engine builds an engine from cfg. A non-nil client backs the blacklist.
func engine(cfg goJWT.Config, logger *slog.Logger, client redis.UniversalClient) (*goJWT.Engine, error) {
	b := goJWT.New().WithConfig(cfg).WithLogger(logger)
	if client != nil {
		b = b.WithRedis(client)
	}
	return b.Build()
}
