package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func writeLedgerFile(tb testing.TB, dir, rel string, lines ...string) string {
	tb.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		tb.Fatal(err)
	}
	return path
}

// sampleDir writes six months (Jan..Jun 2025) of salary, rent and groceries
// for the "personal" account plus two liabilities in a top-level file.
func sampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var lines []string
	for _, m := range []string{"01", "02", "03", "04", "05", "06"} {
		lines = append(lines,
			`{"type":"income","date":"2025-`+m+`-01","amount":"5000","description":"Salary","category":"salary","recurrence":"monthly"}`,
			`{"type":"expense","date":"2025-`+m+`-02","amount":"2000","description":"Rent","category":"housing","recurrence":"monthly"}`,
			`{"type":"expense","date":"2025-`+m+`-10","amount":"400","description":"Groceries","category":"food"}`,
		)
	}
	writeLedgerFile(t, dir, filepath.Join("personal", "2025.jsonl"), lines...)
	writeLedgerFile(t, dir, "debts.jsonl",
		`{"type":"liability","id":"card","name":"Visa","category":"credit_card","balance":3000,"interest_rate":20,"minimum_payment":100}`,
		`{"type":"liability","id":"car","name":"Car","category":"car_loan","balance":"10000","interest_rate":"6","minimum_payment":"200"}`,
	)
	return dir
}

func TestLoad(t *testing.T) {
	dir := sampleDir(t)
	writeLedgerFile(t, dir, filepath.Join("personal", "broken.jsonl"),
		`{"type":"expense","date":"not-a-date","amount":"1"}`,
		`{"type":"expense","date":"2025-06-20","amount":"15","description":"Lunch"}`,
	)

	var calls atomic.Int64
	result, err := Load(dir, func(current, total int) {
		calls.Add(1)
		if current > total {
			t.Errorf("progress %d > total %d", current, total)
		}
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if result.TotalFiles != 3 || result.ParsedFiles != 3 {
		t.Errorf("files = %d total / %d parsed, want 3 / 3", result.TotalFiles, result.ParsedFiles)
	}
	if result.AccountCount != 2 {
		t.Errorf("AccountCount = %d, want 2", result.AccountCount)
	}
	if result.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", result.ParseErrors)
	}
	led := result.Ledger
	if len(led.Income) != 6 || len(led.Expenses) != 13 || len(led.Liabilities) != 2 {
		t.Errorf("ledger = %d income / %d expenses / %d liabilities, want 6 / 13 / 2",
			len(led.Income), len(led.Expenses), len(led.Liabilities))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("progress calls = %d, want 3", got)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	result, err := Load(filepath.Join(t.TempDir(), "nope"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.TotalFiles != 0 || !result.Ledger.Empty() {
		t.Errorf("result = %+v, want empty", result)
	}
}
