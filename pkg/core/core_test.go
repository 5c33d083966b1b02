package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_Smoke(t *testing.T) {
	fs := Scan("CALL TRANSACTION 'X'. SUBMIT rfumsv00.")
	require.Len(t, fs, 1)
	assert.Equal(t, "rfumsv00", fs[0].Name)
	assert.Equal(t, "RFUMSV00", fs[0].Entry)

	assert.NotNil(t, Scan(""))
	assert.Len(t, CatalogEntries(), 105)
	assert.Equal(t, "2480067", Note())
}

func TestDetect_RoundTrip(t *testing.T) {
	units, err := UnmarshalUnits(strings.NewReader(`[
		{"pgm_name":"A","inc_name":"A","type":"PROG","code":"J_1AFONR"},
		{"pgm_name":"B","inc_name":"B","type":"PROG"}
	]`))
	require.NoError(t, err)

	results, err := Detect(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Len(t, results[0].Usages, 1)
	assert.Empty(t, results[1].Usages)

	var buf bytes.Buffer
	require.NoError(t, MarshalResults(&buf, results))
	assert.Contains(t, buf.String(), `"target_name": "J_1AFONR"`)
	assert.Contains(t, buf.String(), `"code": null`)
}

func TestMarshalResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalResults(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestUnmarshalUnits_Invalid(t *testing.T) {
	_, err := UnmarshalUnits(strings.NewReader(`{"pgm_name":"A"}`))
	assert.Error(t, err)
}

func TestScanTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zrep.prog.abap"), []byte("SUBMIT RFUMSV00.\n"), 0o644))

	res, err := ScanTree(context.Background(), Config{Root: dir, DefaultExcludes: true, MaxBytes: 1 << 20})
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "ZREP", res.Results[0].PgmName)
	assert.Len(t, res.Results[0].Usages, 1)
}
