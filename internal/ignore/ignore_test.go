package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, FileName)
	content := "generated/\n*.testclasses.abap\n# comment\n\nsrc/zlegacy.prog.abap\nsrc/**/zz_*.abap\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"generated/zprog.prog.abap":       true,
		"src/generated/zprog.prog.abap":   true,
		"src/zcl_a.clas.testclasses.abap": true,
		"src/zlegacy.prog.abap":           true,
		"src/sub/zz_tmp.prog.abap":        true,
		"src/zreport.prog.abap":           false,
		"other/zlegacy.prog.abap":         false,
	}
	for p, want := range cases {
		if got := m.Match(p); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), FileName))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if m.Match("anything.abap") {
		t.Fatal("empty matcher must not match")
	}
}
