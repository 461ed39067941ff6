package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/NutriSort/internal/classifier"
	"github.com/MikeSquared-Agency/NutriSort/internal/config"
	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
	"github.com/MikeSquared-Agency/NutriSort/internal/report"
	"github.com/MikeSquared-Agency/NutriSort/internal/store"
)

var (
	classifyInput      string
	classifyPopulation string
	classifyLambdas    []float64
	classifyLocale     string
	classifyFormat     string
	classifyNoColor    bool
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyInput, "input", "i", "", "products to classify (.csv or .json)")
	classifyCmd.Flags().StringVarP(&classifyPopulation, "population", "p", "", "reference population CSV (defaults to population.csv_path, then the default profiles)")
	classifyCmd.Flags().Float64SliceVar(&classifyLambdas, "lambda", nil, "cut levels, repeatable (default from config)")
	classifyCmd.Flags().StringVar(&classifyLocale, "locale", "", "column label locale (fr|en)")
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "table", "output format (table|json)")
	classifyCmd.Flags().BoolVar(&classifyNoColor, "no-color", false, "disable colored grades")
	_ = classifyCmd.MarkFlagRequired("input")
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify products from a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(config.LoggingConfig{Level: "warn", Format: "text"})

		products, err := readProducts(classifyInput)
		if err != nil {
			return err
		}
		svc, err := offlineService(cfg, classifyPopulation, logger)
		if err != nil {
			return err
		}
		rep, err := svc.Batch(cmd.Context(), products, report.Options{
			Lambdas: classifyLambdas,
			Locale:  classifyLocale,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(classifyFormat) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		case "table":
			if classifyNoColor {
				color.NoColor = true
			}
			renderReport(out, rep)
			return nil
		default:
			return fmt.Errorf("unknown format %q", classifyFormat)
		}
	},
}

// offlineService builds a service without store or events, seeded with the
// population CSV when one is given.
func offlineService(cfg *config.Config, populationPath string, logger *slog.Logger) (*classifier.Service, error) {
	svc, err := classifier.New(cfg, nil, nil, nil, logger)
	if err != nil {
		return nil, err
	}
	if populationPath == "" {
		populationPath = cfg.Population.CSVPath
	}
	if populationPath == "" {
		return svc, nil
	}
	products, err := store.LoadCSV(populationPath)
	if err != nil {
		return nil, err
	}
	if _, err := svc.UsePopulation(filepath.Base(populationPath), products); err != nil {
		return nil, err
	}
	return svc, nil
}

// readProducts loads a JSON array of products, a {"products": [...]}
// object, or a CSV file, chosen by extension.
func readProducts(path string) ([]electre.Product, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck
		return decodeProducts(f)
	}
	return store.LoadCSV(path)
}

func decodeProducts(r io.Reader) ([]electre.Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var products []electre.Product
	if err := json.Unmarshal(data, &products); err == nil {
		return products, nil
	}
	var wrapped struct {
		Products []electre.Product `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return wrapped.Products, nil
}
