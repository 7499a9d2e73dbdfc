/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/freyjatree/pkg/api"
	"github.com/ssargent/freyjatree/pkg/config"
	"github.com/ssargent/freyjatree/pkg/store"
)

// serveCmd starts the long-lived process that holds the tree and fronts
// it with the HTTP API in pkg/api. Unlike FreyjaDB's "up", there is no
// data directory to create and no recovery pass to run first: the tree
// starts empty every time.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP front end over a fresh, empty tree",
	Long: `Start the FreyjaTree HTTP API server.

The server holds one tree for its lifetime; there is no persistence, so
every restart begins with an empty tree. A configuration file supplies
the bind address, port, and client API key; one is bootstrapped with a
freshly generated key on first run if none exists.

Example:
  freyjatree serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadOrBootstrapConfig(cmd)
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		if port != 0 {
			cfg.Port = port
		}
		bind, _ := cmd.Flags().GetString("bind")
		if bind != "" {
			cfg.Bind = bind
		}

		kv := store.NewKVStore(store.Config{Metrics: store.NewMetrics()})
		if err := kv.Open(); err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer kv.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("freyjatree serve: listening on %s:%d\n", cfg.Bind, cfg.Port)
		return api.StartServer(ctx, kv, api.ServerConfig{
			Bind:   cfg.Bind,
			Port:   cfg.Port,
			APIKey: cfg.Security.ClientAPIKey,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "", "Address to bind the server to (overrides config)")
}

// loadOrBootstrapConfig loads the config file named by --config, or the
// default platform location if --config is empty, generating one with a
// fresh client API key if none exists yet.
func loadOrBootstrapConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if config.ConfigExists(configPath) {
		return config.LoadConfig(configPath)
	}

	cfg, err := config.BootstrapConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping config at %s: %w", configPath, err)
	}
	fmt.Printf("freyjatree: wrote new config to %s (client API key: %s)\n", configPath, cfg.Security.ClientAPIKey)
	return cfg, nil
}
