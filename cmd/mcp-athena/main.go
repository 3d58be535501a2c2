// Package main provides the entry point for the mcp-athena server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/txn2/mcp-athena/internal/server"
	"github.com/txn2/mcp-athena/pkg/platform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	transport   string
	address     string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.transport, "transport", "stdio", "Transport type: stdio, http (ignored when -config is set)")
	flag.StringVar(&opts.address, "address", ":8080", "Server address for the http transport (ignored when -config is set)")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

// flagConfig builds a minimal configuration when no config file is given.
// AWS settings come from the default credential and region chain.
func flagConfig(opts serverOptions) *platform.Config {
	return &platform.Config{
		Server: platform.ServerConfig{
			Transport: opts.transport,
			Address:   opts.address,
		},
	}
}

func createServer(ctx context.Context, opts serverOptions) (*mcpserver.Server, error) {
	if opts.configPath != "" {
		return mcpserver.NewWithConfig(ctx, opts.configPath)
	}
	return mcpserver.New(ctx, flagConfig(opts))
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("mcp-athena version %s\n", mcpserver.Version)
		return nil
	}

	ctx := setupSignalHandler()

	srv, err := createServer(ctx, opts)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer func() { _ = srv.Close() }()

	return srv.Run(ctx)
}
