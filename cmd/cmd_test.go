package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every path the commands touch at a temp dir and clears
// provider keys so the coach stays off.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("HOME", dir)
	for _, k := range []string{
		"USBLORD_DB", "USBLORD_DB_PATH", "USBLORD_EXPORT_DIR", "USBLORD_LLM_PROVIDER",
		"USBLORD_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

// resetFlags undoes flag values left over from an earlier Execute.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

const savedRecord = `{
  "currentQuestion": 12,
  "currentChapter": 2,
  "score": 1100,
  "completedQuestions": [1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11],
  "gameStartTime": 1700000000000,
  "savedAt": 1700000600000,
  "version": "2.0"
}`

func TestStatsWithoutProgress(t *testing.T) {
	dir := isolate(t)
	out, err := run(t, "", "stats", "--db", filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No saved progress found.")
}

func TestImportStatsExportRoundTrip(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "a.db")
	file := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(file, []byte(savedRecord), 0o644))

	out, err := run(t, "", "import", file, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "protocol 012, chapter 02, 1100 access points")

	out, err = run(t, "", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "012 / 100")
	assert.Contains(t, out, "02 / 10")
	assert.Contains(t, out, "1100")
	assert.Contains(t, out, "11 / 100 (11%)")

	exports := filepath.Join(dir, "exports")
	out, err = run(t, "", "export", "--db", db, "--dir", exports)
	require.NoError(t, err)
	assert.Contains(t, out, "Progress exported to")

	entries, err := os.ReadDir(exports)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "usb-lord-progress-"))
	data, err := os.ReadFile(filepath.Join(exports, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"score": 1100`)
}

func TestImportRejectsBadFile(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"currentQuestion": 500}`), 0o644))

	_, err := run(t, "", "import", file, "--db", filepath.Join(dir, "a.db"))
	assert.Error(t, err)
}

func TestExportWithoutProgress(t *testing.T) {
	dir := isolate(t)
	_, err := run(t, "", "export", "--db", filepath.Join(dir, "a.db"), "--dir", dir)
	assert.Error(t, err)
}

func TestResetPromptAndYes(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "a.db")
	file := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(file, []byte(savedRecord), 0o644))
	_, err := run(t, "", "import", file, "--db", db)
	require.NoError(t, err)

	out, err := run(t, "n\n", "reset", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "SYSTEM RESET WARNING")
	assert.Contains(t, out, "Reset cancelled.")

	out, err = run(t, "", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1100", "declined reset keeps progress")

	out, err = run(t, "", "reset", "--yes", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "All progress deleted.")

	out, err = run(t, "", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved progress found.")
}

func TestChapters(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "chapters", "--questions")
	require.NoError(t, err)
	assert.Contains(t, out, "Basic Protocol Initialization")
	assert.Contains(t, out, "001  USB Port Variable")
	assert.Contains(t, out, "20 of 100 questions authored")
}

func TestAttemptsAndLLMEmpty(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "a.db")

	out, err := run(t, "", "attempts", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No attempts recorded yet.")

	out, err = run(t, "", "llm", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")

	out, err = run(t, "", "llm", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM usage recorded yet.")
}

func TestPreview(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "a.db")

	out, err := run(t, "let usbPort = 'USB001';\n\n", "preview", "-q", "1", "--coach=false", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "PROTOCOL 001: USB Port Variable")
	assert.Contains(t, out, "PROTOCOL CONFIRMED")

	out, err = run(t, "let port = 1;\n", "preview", "-q", "1", "--coach=false", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "VALIDATION FAILED")
	assert.Contains(t, out, "Expected: let usbPort = 'USB001';")

	_, err = run(t, "", "preview", "-q", "55", "--db", db)
	assert.Error(t, err, "unauthored question")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "usblord (devel)")
	assert.Contains(t, out, "progress format 2.0")
}
