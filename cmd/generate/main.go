package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phoneprice/internal/app"
	"phoneprice/internal/config"
	"phoneprice/internal/logger"
)

// go run ./cmd/generate
// go run ./cmd/generate --input=data/phone_prices_20261017_090507.csv
func main() {
	var input, dataDir string

	cmd := &cobra.Command{
		Use:           "generate",
		Short:         "Normalize a saved product table into model/price JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}

			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := a.Generate(cmd.Context(), input)
			if err != nil {
				log.Error("Generate failed", logger.String("input", input), logger.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "数据已保存到: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "CSV or XLSX table (default newest in data dir)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory searched for input and written to (default DATA_DIR)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
