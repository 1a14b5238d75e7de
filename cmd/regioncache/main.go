// Command regioncache runs the sample people service in front of a
// region-partitioned cache and clears its regions on demand.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/regioncache/pkg/config"
	"github.com/Sternrassler/regioncache/pkg/logging"
)

// Version is set at build time.
var Version = "dev"

var configFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "regioncache",
		Short:         "Region-partitioned cache sample service",
		Long:          "regioncache serves a slow person store through a region-partitioned cache.\n\nEnvironment:\n" + config.Usage(),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML, TOML, JSON or .env); environment variables always apply")

	root.AddCommand(newServeCmd(), newClearCmd())
	return root
}

// loadConfig reads the configuration and sets up the global logger.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}

	logging.Setup(cfg.Logging())
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("regioncache failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
