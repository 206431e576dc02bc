// Command finlab-mcp runs the FinLab MCP server over stdio.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"finlab-mcp/internal/config"
	"finlab-mcp/internal/docs"
	"finlab-mcp/internal/finlab"
	"finlab-mcp/internal/server"
	"finlab-mcp/internal/tools"
)

var (
	flagConfig  string
	flagDocsDir string
	flagLogFile string
	flagDebug   bool
)

func main() {
	root := &cobra.Command{
		Use:          "finlab-mcp",
		Short:        "MCP server for the FinLab quantitative trading engine",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	serveCmd.Flags().StringVar(&flagDocsDir, "docs-dir", "", "Documentation root directory (overrides config)")
	serveCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log file path (logs disabled by default)")
	serveCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", server.Name, server.Version)
		},
	}

	root.AddCommand(serveCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDocsDir != "" {
		cfg.DocsDir = flagDocsDir
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}
	if flagDebug {
		cfg.Log.Level = "debug"
	}

	logger, closeLog, err := initLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	// The engine is optional at startup: without a token every tool
	// except check_api_token answers with the unavailable notice.
	var engine finlab.Engine
	client, err := finlab.New(cfg.FinLab.BaseURL, cfg.FinLab.Timeout(), logger)
	switch {
	case err == nil:
		engine = client
	case errors.Is(err, finlab.ErrTokenMissing):
		logger.Warn().Msg("FINLAB_API_TOKEN not set, engine-backed tools disabled")
	default:
		return err
	}

	catalog := docs.NewCatalog(cfg.DocsDir, logger)
	registry := tools.NewRegistry()
	dispatcher := tools.NewDispatcher(engine, logger)
	srv := server.New(catalog, registry, dispatcher, logger)

	logger.Info().Str("docs_dir", cfg.DocsDir).Msg("finlab-mcp serving on stdio")
	return srv.Serve(ctx, os.Stdin, os.Stdout)
}

// initLogger builds the diagnostic logger. Stdout belongs to the MCP
// protocol, so output goes to the configured file or is discarded.
func initLogger(cfg config.LogConfig) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var output io.Writer = io.Discard
	closeLog := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
		}
		output = f
		closeLog = func() { f.Close() }
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return logger, closeLog, nil
}
