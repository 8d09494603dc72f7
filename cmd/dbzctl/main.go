// Command dbzctl is a terminal client for the dbzmanager API: accounts, the
// stall design catalog, inquiries, exhibition directories and events.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/dbzmanager/internal/client"
)

const defaultServer = "http://127.0.0.1:8080"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dbzctl: %v\n", err)
		os.Exit(1)
	}
}

// app carries the persistent flags shared by every command.
type app struct {
	server     string
	jsonOut    bool
	configFile string
}

type cliConfig struct {
	Server string `json:"server"`
	Token  string `json:"token"`
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dbzctl",
		Short:         "dbzmanager API client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&a.server, "server", "", "API base URL (defaults to the saved server or "+defaultServer+")")
	cmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print raw JSON instead of tables")
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (defaults to ~/.dbzmanager/config.json)")
	cmd.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newUploadsCmd(a),
		newInquiriesCmd(a),
		newDirectoriesCmd(a),
		newEventsCmd(a),
	)
	return cmd
}

// client builds an API client from the saved config and the --server flag.
func (a *app) client() (*client.Client, cliConfig, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, cliConfig{}, err
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	return client.New(cfg.Server, cfg.Token), cfg, nil
}

func (a *app) configPath() (string, error) {
	if a.configFile != "" {
		return a.configFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dbzmanager", "config.json"), nil
}

func (a *app) loadConfig() (cliConfig, error) {
	path, err := a.configPath()
	if err != nil {
		return cliConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cliConfig{Server: defaultServer}, nil
		}
		return cliConfig{}, err
	}
	var cfg cliConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	return cfg, nil
}

func (a *app) saveConfig(cfg cliConfig) error {
	path, err := a.configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
