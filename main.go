package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/connorpodea/EQLE/internal/config"
	"github.com/connorpodea/EQLE/internal/httpserver"
	"github.com/connorpodea/EQLE/internal/kv"
)

var cfgPath string

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "eqle",
		Short: "Daily arithmetic-equation guessing game",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	root.AddCommand(serveCmd(), playCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := setup()
			if err != nil {
				return err
			}
			defer store.Close()

			srv := httpserver.New(store, cfg)
			log.Info().Str("addr", cfg.Addr).Str("store", cfg.Store.Driver).Msg("starting eqle")
			return srv.Start(cfg.Addr)
		},
	}
}

// setup loads config, applies the log level, and opens the store.
func setup() (config.Config, kv.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, nil, err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	store, err := cfg.OpenStore()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, store, nil
}
