package drcscan

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redactyl/drcscan/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so commands can run
// repeatedly in one process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolate keeps the user's environment and config files out of a test.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{config.EnvAddr, config.EnvPort, config.EnvCatalog, config.EnvLogLevel, config.EnvThreads} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd := t.TempDir()
	t.Chdir(wd)
	return wd
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func sampleTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/zpay.prog.abap":   "REPORT zpay.\nSUBMIT rfumsv00 AND RETURN.\n",
		"src/zpay.prog.xml":    "<asx:abap/>",
		"src/zclean.prog.abap": "REPORT zclean.\n",
	})
	return dir
}

func TestCLI_ScanJSON(t *testing.T) {
	isolate(t)
	dir := sampleTree(t)

	out, _, err := run(t, "scan", "--json", "--fail-on", "none", "-p", dir)
	require.NoError(t, err)

	var arr []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &arr), out)
	require.Len(t, arr, 2)
	var hits []any
	for _, u := range arr {
		hits = append(hits, u["mb_txn_usage"].([]any)...)
	}
	require.Len(t, hits, 1)
	assert.Equal(t, "rfumsv00", hits[0].(map[string]any)["target_name"])
}

func TestCLI_ScanSARIFFromUnits(t *testing.T) {
	wd := isolate(t)
	units := filepath.Join(wd, "units.json")
	writeTree(t, wd, map[string]string{
		"units.json": `[{"pgm_name":"ZP","inc_name":"ZI","type":"PROG","start_line":40,"code":"\nUse J_1AFONR then J_3RFFORM4"}]`,
	})

	out, _, err := run(t, "scan", "--sarif", "--fail-on", "none", "--units", units, "-p", wd)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "2.1.0", doc["version"])
	results := doc["runs"].([]any)[0].(map[string]any)["results"].([]any)
	assert.Len(t, results, 2)
}

func TestCLI_ScanUnitsInvalid(t *testing.T) {
	wd := isolate(t)
	writeTree(t, wd, map[string]string{"units.json": `[{"inc_name":"ZI","type":"PROG"}]`})

	_, _, err := run(t, "scan", "--json", "--units", filepath.Join(wd, "units.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pgm_name")
}

func TestCLI_ScanFailsOnFindings(t *testing.T) {
	isolate(t)
	dir := sampleTree(t)
	resetFlags(rootCmd)
	cmd, _, err := rootCmd.Find([]string{"scan"})
	require.NoError(t, err)
	require.NoError(t, cmd.Flags().Set("path", dir))
	require.NoError(t, rootCmd.PersistentFlags().Set("json", "true"))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { cmd.SetOut(nil); cmd.SetErr(nil) })

	failed, err := scanOnce(cmd)
	require.NoError(t, err)
	assert.True(t, failed)
}

func TestCLI_BaselineSuppressesKnownFindings(t *testing.T) {
	isolate(t)
	dir := sampleTree(t)

	out, _, err := run(t, "baseline", "update", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 findings recorded")
	_, err = os.Stat(filepath.Join(dir, "drcscan.baseline.json"))
	require.NoError(t, err)

	out, _, err = run(t, "scan", "--text", "--no-color", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No obsolete reports found")
}

func TestCLI_LocalConfigApplies(t *testing.T) {
	isolate(t)
	dir := sampleTree(t)
	writeTree(t, dir, map[string]string{".drcscan.yml": "exclude: \"src/zpay*\"\nfail_on: none\n"})

	out, _, err := run(t, "scan", "--json", "-p", dir)
	require.NoError(t, err)
	var arr []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &arr), out)
	require.Len(t, arr, 1)
	assert.Equal(t, "ZCLEAN", arr[0]["pgm_name"])
}

func TestCLI_AuditAndHistory(t *testing.T) {
	isolate(t)
	dir := sampleTree(t)

	_, _, err := run(t, "scan", "--json", "--audit", "--fail-on", "none", "-p", dir)
	require.NoError(t, err)
	gi, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gi), ".drcscan_audit.jsonl")

	out, _, err := run(t, "history", "--json", "-p", dir)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records), out)
	require.Len(t, records, 1)
	assert.EqualValues(t, 1, records[0]["total_findings"])

	out, _, err = run(t, "history", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "RFUMSV00×1")
}

func TestCLI_Catalog(t *testing.T) {
	wd := isolate(t)

	out, _, err := run(t, "catalog", "--json")
	require.NoError(t, err)
	var c catalogJSON
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "2480067", c.Note)
	assert.Len(t, c.Entries, 105)

	out, _, err = run(t, "catalog", "export", "-o", filepath.Join(wd, "cat.yml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	out, _, err = run(t, "catalog", "check", filepath.Join(wd, "cat.yml"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok (105 entries")

	writeTree(t, wd, map[string]string{"dup.yml": "note: \"1\"\nentries: [ABC, abc]\n"})
	_, _, err = run(t, "catalog", "check", filepath.Join(wd, "dup.yml"))
	assert.Error(t, err)
}

func TestCLI_AlternateCatalog(t *testing.T) {
	wd := isolate(t)
	writeTree(t, wd, map[string]string{
		"alt.yml":         "note: \"9999\"\nversion: \"2.0\"\nentries: [ZLEGACY]\n",
		"src/a.prog.abap": "SUBMIT zlegacy. SUBMIT rfumsv00.",
	})

	out, _, err := run(t, "scan", "--json", "--fail-on", "none", "--catalog", filepath.Join(wd, "alt.yml"), "-p", filepath.Join(wd, "src"))
	require.NoError(t, err)
	assert.Contains(t, out, "Report zlegacy is obsolete in S4 HANA, migrated to DRC as per SAP Note 9999")
	assert.NotContains(t, out, "Note 2480067")
}

func TestCLI_ConfigInit(t *testing.T) {
	wd := isolate(t)
	out, _, err := run(t, "config", "init", "--threads", "3", "--gitignore")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote .drcscan.yml")

	fc, err := config.LoadFile(filepath.Join(wd, ".drcscan.yml"))
	require.NoError(t, err)
	require.NotNil(t, fc.Threads)
	assert.Equal(t, 3, *fc.Threads)
	assert.Equal(t, "any", *fc.FailOn)
	assert.Nil(t, fc.Catalog)

	gi, err := os.ReadFile(filepath.Join(wd, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gi), ".drcscan_audit.jsonl")
}

func TestCLI_VersionAndCI(t *testing.T) {
	wd := isolate(t)
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "drcscan 0.1.0")
	assert.Contains(t, out, "obsolete-reports/2480067@1.0.0")

	_, _, err = run(t, "ci", "init", "--provider", "github")
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(wd, ".github", "workflows", "drcscan.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "drcscan scan --sarif")

	_, _, err = run(t, "ci", "init", "--provider", "jenkins")
	assert.Error(t, err)
}

func TestCLI_Completion(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "drcscan")
}
