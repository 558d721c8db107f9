package cmd

import (
	"github.com/spf13/cobra"

	"StaticSweep/internal/config"
	"StaticSweep/internal/logger"
	"StaticSweep/internal/report"
	"StaticSweep/internal/scan"
)

var (
	scanRoot      string
	scanStaticURL string
	scanOutput    string
	scanURLs      bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanRoot, "root", ".", "Source tree to scan for references")
	scanCmd.Flags().StringVar(&scanStaticURL, "static-url", config.DefaultStaticURL, "Public URL prefix the bucket is served under")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "table", "Output format: table, json, yaml")
	scanCmd.Flags().BoolVar(&scanURLs, "urls", false, "Print full public URLs instead of keys")
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the asset keys the source tree references",
	Long:  "Scan the source tree only. No credentials are needed and the bucket is not contacted.",
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(scanOutput)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, map[string]string{
		"scan.root":       "root",
		"site.static_url": "static-url",
	})
	if err != nil {
		return err
	}
	if err := config.ValidateScan(cfg); err != nil {
		return err
	}

	scanner := newScanner(cfg)
	res, err := scanner.Scan(cmd.Context())
	if err != nil {
		return err
	}
	logger.Log.Info().
		Int("files", res.FilesScanned).
		Int("skipped", res.FilesSkipped).
		Int("references", res.References).
		Int("keys", res.Keys.Len()).
		Msg("scan complete")

	keys := res.Keys.Sorted()
	title := "Key"
	if scanURLs {
		title = "URL"
		for i, k := range keys {
			keys[i] = scanner.Matcher().PublicURL(k)
		}
	}
	return report.Print(cmd.OutOrStdout(), format, report.KeyList{Title: title, Keys: keys})
}

func newScanner(cfg *config.Config) *scan.Scanner {
	return scan.New(scan.Options{
		Root:        cfg.Scan.Root,
		BaseURL:     cfg.Site.StaticURL,
		Extensions:  cfg.Scan.Extensions,
		ExcludeDirs: cfg.Scan.ExcludeDirs,
		Logger:      logger.Log,
	})
}
