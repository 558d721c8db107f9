package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"StaticSweep/internal/config"
)

var (
	initPath      string
	initBucket    string
	initStaticURL string
	initForce     bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initPath, "path", config.DefaultConfigName, "Where to write the config file")
	initCmd.Flags().StringVar(&initBucket, "bucket", "", "Bucket name (prompted for on a terminal when empty)")
	initCmd.Flags().StringVar(&initStaticURL, "static-url", "", "Public URL prefix (prompted for on a terminal when empty)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: "Write a starter configuration file. Credentials are not stored in it; set " +
		config.EnvAccountID + ", " + config.EnvAccessKeyID + ", " + config.EnvSecretAccessKey +
		" in the environment or a .env file.",
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", initPath)
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	bucket := initBucket
	if bucket == "" && interactive {
		v, err := ask("Bucket name", os.Getenv(config.EnvBucketName), nil)
		if err != nil {
			return err
		}
		bucket = v
	}
	staticURL := initStaticURL
	if staticURL == "" && interactive {
		v, err := ask("Public static URL", config.DefaultStaticURL, func(s string) error {
			_, err := config.NormalizeStaticURL(s)
			return err
		})
		if err != nil {
			return err
		}
		staticURL = v
	}
	if staticURL != "" {
		u, err := config.NormalizeStaticURL(staticURL)
		if err != nil {
			return err
		}
		staticURL = u
	}

	if err := config.Write(config.Starter(bucket, staticURL), initPath); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", initPath)
	cmd.Printf("Set %s, %s and %s before running sweep.\n", config.EnvAccountID, config.EnvAccessKeyID, config.EnvSecretAccessKey)
	return nil
}

func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, Validate: validate}
	v, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}
	return v, nil
}
