package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/NutriSort/internal/config"
	"github.com/MikeSquared-Agency/NutriSort/internal/hermes"
	"github.com/MikeSquared-Agency/NutriSort/internal/store"
)

var (
	importCSV     string
	importDataset string
	importNotify  bool
)

func init() {
	importCmd.Flags().StringVar(&importCSV, "csv", "", "population CSV to import")
	importCmd.Flags().StringVar(&importDataset, "dataset", "", "target dataset (default from config)")
	importCmd.Flags().BoolVar(&importNotify, "notify", false, "ask running servers to reload the dataset over hermes")
	_ = importCmd.MarkFlagRequired("csv")
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a population CSV into the database, replacing the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.URL == "" {
			return errors.New("database.url is required (or NUTRISORT_DATABASE_URL)")
		}
		dataset := importDataset
		if dataset == "" {
			dataset = cfg.Database.Dataset
		}

		products, err := store.LoadCSV(importCSV)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		n, err := db.ReplaceProducts(ctx, dataset, products)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d products into dataset %q\n", n, dataset)

		if !importNotify {
			return nil
		}
		if cfg.Hermes.URL == "" {
			return errors.New("--notify needs hermes.url (or NUTRISORT_HERMES_URL)")
		}
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, newLogger(config.LoggingConfig{Level: "warn", Format: "text"}))
		if err != nil {
			return err
		}
		defer hc.Close()
		if err := hermes.RequestReload(hc, dataset); err != nil {
			return fmt.Errorf("request reload: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "requested reload of dataset %q\n", dataset)
		return nil
	},
}
