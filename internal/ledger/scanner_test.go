package ledger

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "cash.jsonl"))
	touch(t, filepath.Join(root, "business", "2025.jsonl"))
	touch(t, filepath.Join(root, "business", "q1", "jan.jsonl"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".trash", "old.jsonl"))

	files, err := ScanDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("found %d files, want 3: %+v", len(files), files)
	}

	accounts := map[string]int{}
	for _, f := range files {
		accounts[f.Account]++
	}
	if accounts["business"] != 2 || accounts["cash"] != 1 {
		t.Errorf("accounts = %v", accounts)
	}
	if got := CountAccounts(files); got != 2 {
		t.Errorf("CountAccounts = %d, want 2", got)
	}
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil || files != nil {
		t.Errorf("ScanDir(missing) = %v, %v, want nil, nil", files, err)
	}
}
