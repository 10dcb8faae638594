package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/mcp"
	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/query"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Transport string
	Host      string
	Port      int
}

// NewServeConfig creates a new ServeConfig with default values
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Transport: "stdio",
		Host:      "localhost",
		Port:      8000,
	}
}

// Validate validates the ServeConfig and returns an error if invalid
func (c *ServeConfig) Validate() error {
	if c.Transport != "stdio" && c.Transport != "http" {
		return fmt.Errorf("invalid transport: %s, must be stdio or http", c.Transport)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the skillsmith MCP server",
	Long: `Serve the skill library over the Model Context Protocol so AI tools can
list, read, search, and compose skills. Uses stdio by default; pass
--transport http for a streamable HTTP listener.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getServeConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("Shutting down MCP server...")
			cancel()
		}()

		server := mcp.NewServer(query.NewService(skillsRoot()))

		var err error
		switch config.Transport {
		case "http":
			addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
			presenter.Info(fmt.Sprintf("Serving MCP over HTTP on %s", addr))
			err = server.ServeHTTP(ctx, addr)
		default:
			err = server.ServeStdio()
		}
		if err != nil {
			presenter.Error(err, "MCP server failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("transport", defaults.Transport, "MCP transport (stdio or http)")
	serveCmd.Flags().String("host", defaults.Host, "HTTP host")
	serveCmd.Flags().Int("port", defaults.Port, "HTTP port")
}

// getServeConfigFromFlags extracts serve configuration from command flags
func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()

	if transport, err := cmd.Flags().GetString("transport"); err == nil {
		config.Transport = transport
	}
	if host, err := cmd.Flags().GetString("host"); err == nil {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		config.Port = port
	}

	return config
}
