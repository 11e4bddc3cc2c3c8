package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AndrewChmutov/big-medicine/internal/client"
	"github.com/AndrewChmutov/big-medicine/internal/config"
	"github.com/AndrewChmutov/big-medicine/internal/model"
)

var (
	flagConfig   string
	flagHost     string
	flagPort     int
	flagAccount  string
	flagKeyspace string
)

var rootCmd = &cobra.Command{
	Use:           "bigmedicine",
	Short:         "Medicine inventory reservation service",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "config.toml", "path to the TOML configuration file")
	flags.StringVar(&flagHost, "host", "", "server host, overrides the configuration")
	flags.IntVar(&flagPort, "port", 0, "server port, overrides the configuration")
	flags.StringVar(&flagAccount, "account", "", "account name, overrides the configuration")
	flags.StringVar(&flagKeyspace, "keyspace", "", "keyspace name, overrides the configuration")
}

// loadConfig reads the TOML configuration and applies flag overrides. When
// the default config file is absent, built-in defaults are used; an
// explicitly passed --config must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{
		Account:   config.AccountConfig{Name: "default"},
		Cassandra: config.CassandraConfig{Points: []string{"127.0.0.1"}, Keyspace: "medicines", ReplFactor: 1},
		Network: config.NetworkConfig{
			Client: config.Endpoint{IP: "127.0.0.1", Port: 8000},
			Server: config.Endpoint{IP: "0.0.0.0", Port: 8000},
		},
	}

	if _, err := os.Stat(flagConfig); err == nil {
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
	} else if cmd.Flags().Changed("config") {
		return nil, fmt.Errorf("config %s: %w", flagConfig, err)
	}

	if flagHost != "" {
		cfg.Network.Client.IP = flagHost
	}
	if flagPort != 0 {
		cfg.Network.Client.Port = flagPort
		cfg.Network.Server.Port = flagPort
	}
	if flagAccount != "" {
		cfg.Account.Name = flagAccount
	}
	if flagKeyspace != "" {
		cfg.Cassandra.Keyspace = flagKeyspace
	}
	return cfg, nil
}

// newClient builds the HTTP client for the configured client endpoint.
func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.Network.Client.IP, cfg.Network.Client.Port)
}

// parseEntries parses medicine,count tokens into entries, rejecting
// duplicated medicines up front.
func parseEntries(args []string) ([]model.MedicineEntry, error) {
	entries := make([]model.MedicineEntry, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		name, countStr, found := strings.Cut(arg, ",")
		if !found || name == "" {
			return nil, fmt.Errorf("expected medicine,count token, got %q", arg)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("expected a positive count in %q", arg)
		}
		if seen[name] {
			return nil, fmt.Errorf("use of duplicated medicines: %q", name)
		}
		seen[name] = true
		entries = append(entries, model.MedicineEntry{Name: name, Count: count})
	}
	return entries, nil
}

// printJSON renders a response on stdout.
func printJSON(v interface{}) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}
