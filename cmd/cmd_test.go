package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StaticSweep/internal/config"
	"StaticSweep/internal/journal"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func setCredentials(t *testing.T) {
	t.Setenv(config.EnvAccountID, "acct")
	t.Setenv(config.EnvAccessKeyID, "AKID")
	t.Setenv(config.EnvSecretAccessKey, "SECRET")
	t.Setenv(config.EnvBucketName, "assets")
}

func TestValidate_ReportsMissingEnv(t *testing.T) {
	t.Setenv(config.EnvAccountID, "")
	t.Setenv(config.EnvAccessKeyID, "")
	t.Setenv(config.EnvSecretAccessKey, "")
	t.Setenv(config.EnvBucketName, "")
	dir := t.TempDir()

	_, err := execute(t, "validate",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--env-file", filepath.Join(dir, "missing.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingEnv)
	assert.Contains(t, err.Error(), config.EnvSecretAccessKey)
}

func TestValidate_EnvOverridesFile(t *testing.T) {
	setCredentials(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "staticsweep.yaml")
	cfg := config.Starter("from-file", "https://cdn.example.com")
	require.NoError(t, config.Write(cfg, path))

	out, err := execute(t, "validate", "--config", path, "--env-file", filepath.Join(dir, "none.env"))
	require.NoError(t, err)
	assert.Contains(t, out, "bucket:     assets")
	assert.Contains(t, out, "https://acct.r2.cloudflarestorage.com")
	assert.Contains(t, out, "https://cdn.example.com/")
}

func TestValidate_DotenvSuppliesCredentials(t *testing.T) {
	for _, k := range []string{config.EnvAccountID, config.EnvAccessKeyID, config.EnvSecretAccessKey, config.EnvBucketName} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte(
		"R2_ACCOUNT_ID=dot\nR2_ACCESS_KEY_ID=k\nR2_SECRET_ACCESS_KEY=s\nR2_BUCKET_NAME=dotbucket\n"), 0600))

	out, err := execute(t, "validate", "--config", filepath.Join(dir, "none.yaml"), "--env-file", env)
	require.NoError(t, err)
	assert.Contains(t, out, "dotbucket")
}

func TestSweep_MissingEnvFailsBeforeIO(t *testing.T) {
	for _, k := range []string{config.EnvAccountID, config.EnvAccessKeyID, config.EnvSecretAccessKey, config.EnvBucketName} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	lockDir := filepath.Join(dir, "locks")
	journalDir := filepath.Join(dir, "journal")
	cfg := config.Starter("", "https://static.example.com/")
	cfg.Lock = &config.LockConfig{Dir: lockDir}
	cfg.Journal = &config.JournalConfig{Enabled: true, Dir: journalDir}
	path := filepath.Join(dir, "staticsweep.yaml")
	require.NoError(t, config.Write(cfg, path))

	_, err := execute(t, "sweep", "--config", path, "--env-file", filepath.Join(dir, "none.env"), "--root", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingEnv)
	for _, name := range []string{config.EnvAccountID, config.EnvAccessKeyID, config.EnvSecretAccessKey, config.EnvBucketName} {
		assert.Contains(t, err.Error(), name)
	}
	assert.NoDirExists(t, lockDir)
	assert.NoDirExists(t, journalDir)
}

func TestInit_WritesStarterAndRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staticsweep.yaml")

	_, err := execute(t, "init", "--path", path, "--bucket", "assets", "--static-url", "https://static.example.com")
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = execute(t, "init", "--path", path, "--bucket", "assets", "--static-url", "https://static.example.com")
	assert.Error(t, err)
	initForce = false
}

func TestNotifierFromConfig(t *testing.T) {
	assert.Nil(t, NotifierFromConfig(nil, nil))
	assert.Nil(t, NotifierFromConfig(&config.Config{}, nil))

	var warned string
	cfg := &config.Config{Notifications: &config.NotificationsConfig{
		Enabled: true,
		Discord: &config.DiscordConfig{Enabled: true},
	}}
	assert.Nil(t, NotifierFromConfig(cfg, func(s string) { warned = s }))
	assert.Contains(t, warned, "webhook_url")

	cfg.Notifications.Discord.WebhookURL = "https://discord.example/webhook"
	assert.NotNil(t, NotifierFromConfig(cfg, nil))
}

func TestJournalEntriesRows(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ok, failed := true, false
	rows := journalEntries{
		{Type: journal.EntryBegin, Time: now, Bucket: "assets", Candidates: 2, Digest: "abc"},
		{Type: journal.EntryDelete, Time: now, Key: "a.png", OK: &ok},
		{Type: journal.EntryDelete, Time: now, Key: "b.png", OK: &failed, Error: "denied"},
		{Type: journal.EntrySummary, Time: now, Attempted: 2, Succeeded: 1, Failed: 1},
	}.Rows()

	require.Len(t, rows, 4)
	assert.Equal(t, "deleted", rows[1][3])
	assert.Equal(t, "failed: denied", rows[2][3])
	assert.Equal(t, "2 attempted, 1 deleted, 1 failed", rows[3][3])
}
