package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"StaticSweep/internal/journal"
	"StaticSweep/internal/report"
)

var journalOutput string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd, journalShowCmd)
	journalCmd.PersistentFlags().StringVarP(&journalOutput, "output", "o", "table", "Output format: table, json, yaml")
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the record of past deletions",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal files, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the entries of one journal file",
	Long:  "Print the entries of one journal file. A bare file name is looked up in journal.dir.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

func journalDir(cmd *cobra.Command) (string, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return "", err
	}
	if cfg.Journal == nil || cfg.Journal.Dir == "" {
		return "", fmt.Errorf("journal.dir is not configured")
	}
	return cfg.Journal.Dir, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(journalOutput)
	if err != nil {
		return err
	}
	dir, err := journalDir(cmd)
	if err != nil {
		return err
	}
	files, err := journal.List(dir)
	if err != nil {
		return err
	}
	return report.Print(cmd.OutOrStdout(), format, report.KeyList{Title: "Journal", Keys: files})
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(journalOutput)
	if err != nil {
		return err
	}
	path := args[0]
	if filepath.Base(path) == path {
		dir, err := journalDir(cmd)
		if err != nil {
			return err
		}
		path = filepath.Join(dir, path)
	}
	entries, err := journal.Read(path)
	if err != nil {
		return err
	}
	return report.Print(cmd.OutOrStdout(), format, journalEntries(entries))
}

type journalEntries []journal.Entry

func (e journalEntries) Headers() []string {
	return []string{"Time", "Type", "Key", "Result"}
}

func (e journalEntries) Rows() [][]string {
	rows := make([][]string, 0, len(e))
	for _, en := range e {
		var key, result string
		switch en.Type {
		case journal.EntryBegin:
			key = en.Bucket
			result = strconv.Itoa(en.Candidates) + " candidates, digest " + en.Digest
		case journal.EntryDelete:
			key = en.Key
			result = "deleted"
			if en.OK == nil || !*en.OK {
				result = "failed: " + en.Error
			}
		case journal.EntrySummary:
			result = fmt.Sprintf("%d attempted, %d deleted, %d failed", en.Attempted, en.Succeeded, en.Failed)
		}
		rows = append(rows, []string{en.Time.Local().Format(time.DateTime), en.Type, key, result})
	}
	return rows
}
