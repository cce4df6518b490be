package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phoneprice/internal/app"
	"phoneprice/internal/config"
	"phoneprice/internal/logger"
)

// go run ./cmd/crawler
// go run ./cmd/crawler --url="https://detail.zol.com.cn/cell_phone_index/subcate57_list_1.html" --data-dir=data
func main() {
	var url, dataDir string

	cmd := &cobra.Command{
		Use:           "crawler",
		Short:         "Crawl a phone listing page and save normalized prices",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if url != "" {
				cfg.TargetURL = url
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

			path, err := a.Crawl(cmd.Context(), cfg.TargetURL)
			if err != nil {
				log.Error("Crawl failed", logger.String("url", cfg.TargetURL), logger.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "数据已保存到: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "listing page to crawl (default TARGET_URL)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "output directory (default DATA_DIR)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
