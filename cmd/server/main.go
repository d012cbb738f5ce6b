package main

// The main package parses the configuration, opens the database and wires
// together the session store, handlers and HTTP routes. This entry point
// stays small to emphasize how the application is composed from the
// internal packages.

import (
	"os"

	"github.com/spf13/cobra"

	"cms/internal/config"
	"cms/internal/logger"
)

var (
	log = logger.GetLogger()

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:          "cms",
	Short:        "cms serves the content management site",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (default ./config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	lvl := logger.SetLevel(cfg.Log.Level)
	log.Debugf("log level set to %s", lvl)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
