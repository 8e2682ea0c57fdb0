package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/model"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleLedger(path string) model.Ledger {
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	return model.Ledger{
		Income: []model.Transaction{{
			ID: "salary-jun", Kind: model.KindIncome, FilePath: path, Account: "personal",
			Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("5200.55"),
			Description: "Salary", Recurrence: model.RecurrenceMonthly, RecurrenceEndDate: &end,
		}},
		Expenses: []model.Transaction{{
			ID: "rent-jun", Kind: model.KindExpense, FilePath: path,
			Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Amount: decimal.RequireFromString("1800"), Description: "Rent", Category: "housing",
			Recurrence: model.RecurrenceOneTime,
		}},
		Liabilities: []model.Liability{{
			ID: "visa", Name: "Visa", Category: model.CategoryCreditCard, FilePath: path,
			Balance: 5000, InterestRate: 19.99, MinimumPayment: 150,
		}},
	}
}

func TestCache_SaveAndLoad(t *testing.T) {
	c := openTemp(t)
	path := "/ledger/personal.jsonl"
	if err := c.SaveFile(path, sampleLedger(path), 111, 222); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if fi := tracked[path]; fi.MtimeNs != 111 || fi.SizeBytes != 222 {
		t.Errorf("tracked = %+v, want 111/222", fi)
	}

	led, err := c.LoadFiles(nil)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if len(led.Income) != 1 || len(led.Expenses) != 1 || len(led.Liabilities) != 1 {
		t.Fatalf("loaded %d/%d/%d records", len(led.Income), len(led.Expenses), len(led.Liabilities))
	}

	inc := led.Income[0]
	if !inc.Amount.Equal(decimal.RequireFromString("5200.55")) {
		t.Errorf("Amount = %s, want 5200.55", inc.Amount)
	}
	if !inc.Date.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", inc.Date)
	}
	if inc.RecurrenceEndDate == nil || inc.RecurrenceEndDate.Year() != 2025 {
		t.Errorf("RecurrenceEndDate = %v", inc.RecurrenceEndDate)
	}
	if inc.Recurrence != model.RecurrenceMonthly || inc.Account != "personal" || inc.FilePath != path {
		t.Errorf("income = %+v", inc)
	}
	if l := led.Liabilities[0]; l.Category != model.CategoryCreditCard || l.InterestRate != 19.99 {
		t.Errorf("liability = %+v", l)
	}

	n, err := c.RecordCount()
	if err != nil || n != 3 {
		t.Errorf("RecordCount = %d, %v, want 3", n, err)
	}
}

func TestCache_SaveReplacesFileRecords(t *testing.T) {
	c := openTemp(t)
	path := "/ledger/personal.jsonl"
	if err := c.SaveFile(path, sampleLedger(path), 1, 1); err != nil {
		t.Fatal(err)
	}

	smaller := sampleLedger(path)
	smaller.Income = nil
	if err := c.SaveFile(path, smaller, 2, 2); err != nil {
		t.Fatal(err)
	}

	led, err := c.LoadFiles(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(led.Income) != 0 || len(led.Expenses) != 1 {
		t.Errorf("after resave: %d income, %d expenses, want 0/1", len(led.Income), len(led.Expenses))
	}
}

func TestCache_LoadFilesSubsetAndDelete(t *testing.T) {
	c := openTemp(t)
	a, b := "/ledger/a.jsonl", "/ledger/b.jsonl"
	for _, p := range []string{a, b} {
		if err := c.SaveFile(p, sampleLedger(p), 1, 1); err != nil {
			t.Fatal(err)
		}
	}

	led, err := c.LoadFiles(map[string]struct{}{a: {}})
	if err != nil {
		t.Fatal(err)
	}
	if led.Len() != 3 {
		t.Errorf("subset Len = %d, want 3", led.Len())
	}
	for _, tx := range led.Transactions() {
		if tx.FilePath != a {
			t.Errorf("unexpected file %s in subset", tx.FilePath)
		}
	}

	if err := c.DeleteFile(a); err != nil {
		t.Fatal(err)
	}
	n, err := c.RecordCount()
	if err != nil || n != 3 {
		t.Errorf("RecordCount after delete = %d, %v, want 3", n, err)
	}
	tracked, _ := c.GetTrackedFiles()
	if _, ok := tracked[a]; ok {
		t.Error("deleted file still tracked")
	}
}
