package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/NutriSort/internal/config"
)

var (
	profilesPopulation string
	profilesFormat     string
)

func init() {
	profilesCmd.Flags().StringVarP(&profilesPopulation, "population", "p", "", "reference population CSV (defaults to population.csv_path, then the default profiles)")
	profilesCmd.Flags().StringVar(&profilesFormat, "format", "table", "output format (table|json)")
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Print the six boundary profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(config.LoggingConfig{Level: "warn", Format: "text"})
		svc, err := offlineService(cfg, profilesPopulation, logger)
		if err != nil {
			return err
		}
		profiles, err := svc.Profiles()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(profilesFormat) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(profiles)
		case "table":
			renderProfiles(out, profiles, svc.Criteria())
			return nil
		default:
			return fmt.Errorf("unknown format %q", profilesFormat)
		}
	},
}
