package cmd

import (
	"github.com/spf13/cobra"

	"StaticSweep/internal/gc"
	"StaticSweep/internal/logger"
	"StaticSweep/internal/report"
	"StaticSweep/internal/s3"
)

var listOutput string

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format: table, json, yaml")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every object key in the bucket",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(listOutput)
	if err != nil {
		return err
	}
	cfg, err := loadValidConfig(cmd, nil)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, err := s3.Open(ctx, cfg.R2)
	if err != nil {
		return err
	}
	keys, err := gc.ListAll(ctx, store)
	if err != nil {
		return err
	}
	logger.Log.Info().Str("bucket", store.Bucket()).Int("keys", len(keys)).Msg("list complete")
	return report.Print(cmd.OutOrStdout(), format, report.KeyList{Keys: keys})
}
