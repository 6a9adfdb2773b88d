package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		want string
	}{
		{"prog.asm", ".bin", "prog.bin"},
		{"dir/prog.s", ".lst", "dir/prog.lst"},
		{"prog", ".bin", "prog.bin"},
		{"a.b.asm", ".bin", "a.b.bin"},
	}
	for _, tc := range tests {
		if got := ReplaceExt(tc.path, tc.ext); got != tc.want {
			t.Errorf("ReplaceExt(%q, %q) = %q; want %q", tc.path, tc.ext, got, tc.want)
		}
	}
}

func TestReadSourceAndWriteBinary(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.asm")
	if err := os.WriteFile(src, []byte("HLT\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	full, text, err := ReadSource(src)
	if err != nil {
		t.Fatalf("ReadSource error: %v", err)
	}
	if text != "HLT\n" || !filepath.IsAbs(full) {
		t.Errorf("ReadSource = %q, %q", full, text)
	}

	out := ReplaceExt(full, ".bin")
	if err := WriteBinary(out, []byte{0xFF}); err != nil {
		t.Fatalf("WriteBinary error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || len(data) != 1 || data[0] != 0xFF {
		t.Errorf("written file = % X, %v", data, err)
	}

	if _, _, err := ReadSource(filepath.Join(dir, "missing.asm")); err == nil {
		t.Errorf("ReadSource of a missing file should fail")
	}
}
