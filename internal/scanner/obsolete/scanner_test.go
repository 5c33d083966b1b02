package obsolete

import (
	"strings"
	"sync"
	"testing"

	"github.com/redactyl/drcscan/internal/catalog"
	"github.com/redactyl/drcscan/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := New(catalog.Default())
	require.NoError(t, err)
	return s
}

func TestScan_NoMatches(t *testing.T) {
	s := defaultScanner(t)
	for _, text := range []string{"", "no obsolete names here", "REPORT zfoo.\nWRITE 'hello'."} {
		got := s.Scan(text)
		assert.NotNil(t, got)
		assert.Empty(t, got, "text %q", text)
	}
}

func TestScan_DuplicateSuppressedAcrossCase(t *testing.T) {
	s := defaultScanner(t)
	text := "Please run RFUMSV00 and then rfumsv00 again"
	got := s.Scan(text)
	require.Len(t, got, 1)
	f := got[0]
	assert.Equal(t, "RFUMSV00", f.Name)
	assert.Equal(t, "RFUMSV00", f.Entry)
	assert.Equal(t, 11, f.Start)
	assert.Equal(t, 19, f.End)
	assert.Equal(t, "RFUMSV00", text[f.Start:f.End])
	assert.Equal(t, "Report RFUMSV00 is obsolete in S4 HANA, migrated to DRC as per SAP Note 2480067", f.Suggestion)
}

func TestScan_OrderedByFirstAppearance(t *testing.T) {
	s := defaultScanner(t)
	got := s.Scan("Use J_1AFONR then J_3RFFORM4")
	require.Len(t, got, 2)
	assert.Equal(t, "J_1AFONR", got[0].Name)
	assert.Equal(t, 4, got[0].Start)
	assert.Equal(t, "J_3RFFORM4", got[1].Name)
	assert.Equal(t, 18, got[1].Start)
	for _, f := range got {
		assert.Equal(t, "Report "+f.Name+" is obsolete in S4 HANA, migrated to DRC as per SAP Note 2480067", f.Suggestion)
	}

	// catalog lists J_1AFONR before J_3RFFORM4; text order wins
	got = s.Scan("J_3RFFORM4 before J_1AFONR")
	require.Len(t, got, 2)
	assert.Equal(t, "J_3RFFORM4", got[0].Name)
	assert.Equal(t, "J_1AFONR", got[1].Name)
}

func TestScan_ReportsMatchedCasing(t *testing.T) {
	s := defaultScanner(t)
	got := s.Scan("submit rfumsv00 and return.")
	require.Len(t, got, 1)
	assert.Equal(t, "rfumsv00", got[0].Name)
	assert.Equal(t, "RFUMSV00", got[0].Entry)
	assert.Contains(t, got[0].Suggestion, "Report rfumsv00 is obsolete")
}

func TestScan_EarlierListedEntryWinsAtSameOffset(t *testing.T) {
	s := defaultScanner(t)
	// RFCLLIB01 is listed before RFCLLIB01_PE
	got := s.Scan("SUBMIT RFCLLIB01_PE.")
	require.Len(t, got, 1)
	assert.Equal(t, "RFCLLIB01", got[0].Name)
	assert.Equal(t, 7, got[0].Start)
	assert.Equal(t, 16, got[0].End)
}

func TestScan_EarlierStartWins(t *testing.T) {
	s := defaultScanner(t)
	got := s.Scan("SUBMIT /BGLOCS/FI_RFASLD20 VIA SELECTION-SCREEN.")
	require.Len(t, got, 1)
	assert.Equal(t, "/BGLOCS/FI_RFASLD20", got[0].Name)

	// non-overlapping: the embedded RFASLD20 is consumed; a later standalone one is reported
	got = s.Scan("/BGLOCS/FI_RFASLD20 RFASLD20")
	require.Len(t, got, 2)
	assert.Equal(t, "RFASLD20", got[1].Name)
	assert.Equal(t, 20, got[1].Start)
}

func TestScan_CharacterOffsetsWithMultibyteText(t *testing.T) {
	s := defaultScanner(t)
	text := "* Übergabe für Länder\nSUBMIT trivat."
	got := s.Scan(text)
	require.Len(t, got, 1)
	runes := []rune(text)
	assert.Equal(t, "trivat", string(runes[got[0].Start:got[0].End]))
	assert.Equal(t, 2, got[0].Line)
	assert.NotEqual(t, strings.Index(text, "trivat"), got[0].Start, "byte and char offsets differ here")
}

func TestScan_SpecialCharactersAreLiteral(t *testing.T) {
	cat, err := catalog.New("1", "1.0.0", []string{"A.C", "(X|Y)", "Z*"})
	require.NoError(t, err)
	s := Must(cat)

	assert.Empty(t, s.Scan("ABC XY ZZZ"))

	got := s.Scan("call A.C then (x|y) then z*")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A.C", "(x|y)", "z*"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, "(X|Y)", got[1].Entry)
	assert.Equal(t, "Report (x|y) is obsolete in S4 HANA, migrated to DRC as per SAP Note 1", got[1].Suggestion)
}

func TestScan_Lines(t *testing.T) {
	s := defaultScanner(t)
	got := s.Scan("REPORT ztest.\n\n  SUBMIT rfbila00.\n  SUBMIT rfbila00.\n  SUBMIT trslist.")
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Line)
	assert.Equal(t, 5, got[1].Line)
}

func TestScan_Idempotent(t *testing.T) {
	s := defaultScanner(t)
	text := "RFUMSV00 /saptr/kdvbabs j_3rvatdecl RFUMSV00"
	first := s.Scan(text)
	second := s.Scan(text)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestScan_Concurrent(t *testing.T) {
	s := defaultScanner(t)
	text := "SUBMIT RFUMSV00. SUBMIT RFBILA00."
	want := s.Scan(text)

	var wg sync.WaitGroup
	results := make([][]types.Finding, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Scan(text)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestNew_RejectsMissingCatalog(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, catalog.ErrEmpty)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "obsolete-reports/2480067@1.0.0", defaultScanner(t).Version())
}

func TestScan_UnicodeCaseFolding(t *testing.T) {
	s := defaultScanner(t)

	// simple folding: long s matches s and resolves to the catalog spelling
	got := s.Scan("SUBMIT trſlist.")
	require.Len(t, got, 1)
	assert.Equal(t, "trſlist", got[0].Name)
	assert.Equal(t, "TRSLIST", got[0].Entry)
	assert.Equal(t, 7, got[0].Start)
	assert.Equal(t, 14, got[0].End)

	// Turkish dotless and dotted i are not folded to i
	assert.Empty(t, s.Scan("rfbıla00"))
	assert.Empty(t, s.Scan("trİvat"))
}
