package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and credentials without contacting the bucket",
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidConfig(cmd, nil)
	if err != nil {
		return err
	}
	cmd.Printf("Configuration OK\n")
	cmd.Printf("  bucket:     %s\n", cfg.R2.Bucket)
	cmd.Printf("  endpoint:   %s (%s driver)\n", cfg.R2.Endpoint, cfg.R2.Driver)
	cmd.Printf("  static url: %s\n", cfg.Site.StaticURL)
	cmd.Printf("  scan root:  %s\n", cfg.Scan.Root)
	return nil
}
