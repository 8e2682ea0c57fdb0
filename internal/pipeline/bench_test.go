package pipeline

import (
	"fmt"
	"path/filepath"
	"testing"
)

func BenchmarkLoad(b *testing.B) {
	dir := b.TempDir()
	for f := 0; f < 16; f++ {
		lines := make([]string, 0, 500)
		for i := 0; i < 500; i++ {
			lines = append(lines, fmt.Sprintf(
				`{"type":"expense","date":"2025-%02d-%02d","amount":"%d.25","description":"item %d","category":"misc"}`,
				i%12+1, i%28+1, i, i))
		}
		writeLedgerFile(b, dir, filepath.Join(fmt.Sprintf("acct%d", f%4), fmt.Sprintf("f%d.jsonl", f)), lines...)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(dir, nil); err != nil {
			b.Fatal(err)
		}
	}
}
