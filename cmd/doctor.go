package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"StaticSweep/internal/doctor"
	"StaticSweep/internal/report"
)

var doctorOutput string

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVarP(&doctorOutput, "output", "o", "table", "Output format: table, json, yaml")
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, bucket access, scan root, and lock directory",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(doctorOutput)
	if err != nil {
		return err
	}
	cfg, err := loadConfigWith(cmd, nil, true)
	if err != nil {
		cmd.Printf("Config load: ERROR: %v\n", err)
		return err
	}

	results := doctor.Run(cmd.Context(), cfg, nil)
	if err := report.Print(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}
	if results.Failed() {
		return fmt.Errorf("one or more checks failed; see output above")
	}
	return nil
}
