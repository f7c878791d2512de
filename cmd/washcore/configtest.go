package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/washgo/washcore/config"
	"github.com/washgo/washcore/paths"
)

func newConfigTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configtest",
		Short: "parse wash.cfg and print every resolved key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Int("keys", len(cfg.Keys())).Msg("config parsed")
			for _, k := range cfg.Keys() {
				v, _ := cfg.Get(k)
				fmt.Printf("%s = %s\n", k, v)
			}
			return nil
		},
	}
}

// loadConfig resolves flagConfigPath (or the XDG default) and parses it,
// tolerating a missing file -- a fresh install has nothing to load yet.
func loadConfig() (*config.Store, string, error) {
	path := flagConfigPath
	if path == "" {
		p, err := paths.DefaultConfigFile()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	cfg := config.New()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, path, nil
	}
	if err != nil {
		return nil, path, err
	}
	defer f.Close()

	if err := cfg.Parse(f); err != nil {
		log.Warn().Err(err).Msg("config contained malformed lines; continuing with what parsed")
	}
	return cfg, path, nil
}
