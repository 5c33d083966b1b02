package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/redactyl/drcscan/internal/catalog"
	"github.com/redactyl/drcscan/internal/scanner/obsolete"
	"github.com/redactyl/drcscan/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingScanner struct {
	*obsolete.Scanner
	calls atomic.Int64
}

func (c *countingScanner) Scan(text string) []types.Finding {
	c.calls.Add(1)
	return c.Scanner.Scan(text)
}

func newEngine(t *testing.T, opts Options) (*Engine, *countingScanner) {
	t.Helper()
	cs := &countingScanner{Scanner: obsolete.Must(catalog.Default())}
	e, err := New(cs, opts)
	require.NoError(t, err)
	return e, cs
}

func strPtr(s string) *string { return &s }

func TestDetect_PreservesOrderAndFields(t *testing.T) {
	e, _ := newEngine(t, Options{Threads: 4})
	var units []types.Unit
	for i := 0; i < 50; i++ {
		code := fmt.Sprintf("* unit %d\nSUBMIT RFUMSV00.", i)
		if i%2 == 1 {
			code = "WRITE 'nothing'."
		}
		units = append(units, types.Unit{PgmName: fmt.Sprintf("ZP%02d", i), IncName: "INC", Type: "PROG", Code: strPtr(code)})
	}

	results, err := e.Detect(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, results, len(units))
	for i, r := range results {
		assert.Equal(t, units[i].PgmName, r.PgmName)
		assert.NotNil(t, r.Usages)
		if i%2 == 1 {
			assert.Empty(t, r.Usages)
			continue
		}
		require.Len(t, r.Usages, 1)
		u := r.Usages[0]
		assert.Equal(t, "None", u.Table)
		assert.Equal(t, "Report", u.TargetType)
		assert.Equal(t, "RFUMSV00", u.TargetName)
		assert.Equal(t, []string{}, u.UsedFields)
		assert.False(t, u.Ambiguous)
		assert.Nil(t, u.SuggestedFields)
	}
}

func TestDetect_MissingCodeIsEmpty(t *testing.T) {
	e, _ := newEngine(t, Options{})
	results, err := e.Detect(context.Background(), []types.Unit{{PgmName: "Z", IncName: "Z", Type: "PROG"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Usages)
	assert.Nil(t, results[0].Code)
}

func TestDetect_UsesCache(t *testing.T) {
	e, cs := newEngine(t, Options{Threads: 1})
	unit := types.Unit{PgmName: "Z", IncName: "Z", Type: "PROG", Code: strPtr("SUBMIT TRIVAT.")}

	_, err := e.Detect(context.Background(), []types.Unit{unit, unit, unit})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cs.calls.Load())
}

func TestDetect_CacheDisabled(t *testing.T) {
	e, cs := newEngine(t, Options{Threads: 1, CacheSize: -1})
	unit := types.Unit{PgmName: "Z", IncName: "Z", Type: "PROG", Code: strPtr("SUBMIT TRIVAT.")}

	results, err := e.Detect(context.Background(), []types.Unit{unit, unit})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cs.calls.Load())
	assert.Equal(t, results[0].Usages, results[1].Usages)
}

func TestDetect_Cancelled(t *testing.T) {
	e, _ := newEngine(t, Options{Threads: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Detect(ctx, []types.Unit{{PgmName: "Z", IncName: "Z", Type: "PROG"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetect_Empty(t *testing.T) {
	e, _ := newEngine(t, Options{})
	results, err := e.Detect(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
