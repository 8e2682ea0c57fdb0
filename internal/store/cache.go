// Package store provides a SQLite-backed cache for parsed ledger records.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateLayout = "2006-01-02T15:04:05Z07:00"

// Cache provides SQLite-backed ledger caching keyed by source file.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFile replaces every cached record of filePath with led and updates the
// file tracker, in one transaction.
func (c *Cache) SaveFile(filePath string, led model.Ledger, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	// Re-inserting the tracker row cascades away the file's old records.
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO file_tracker (file_path, mtime_ns, size_bytes, parsed_at)
		VALUES (?, ?, ?, ?)`, filePath, mtimeNs, sizeBytes, now)
	if err != nil {
		return err
	}

	seq := 0
	for _, t := range led.Transactions() {
		var recurrenceEnd sql.NullString
		if t.RecurrenceEndDate != nil {
			recurrenceEnd = sql.NullString{String: t.RecurrenceEndDate.Format(dateLayout), Valid: true}
		}
		_, err = tx.Exec(`INSERT OR REPLACE INTO transactions
			(id, file_path, kind, date, amount, description, category,
			 recurrence, recurrence_end, account, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, filePath, string(t.Kind), t.Date.Format(dateLayout), t.Amount, t.Description, t.Category,
			string(t.Recurrence), recurrenceEnd, t.Account, seq,
		)
		if err != nil {
			return err
		}
		seq++
	}

	for _, l := range led.Liabilities {
		_, err = tx.Exec(`INSERT OR REPLACE INTO liabilities
			(id, file_path, name, category, balance, interest_rate, minimum_payment, account, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, filePath, l.Name, string(l.Category), l.Balance, l.InterestRate, l.MinimumPayment, l.Account, seq,
		)
		if err != nil {
			return err
		}
		seq++
	}

	return tx.Commit()
}

// LoadFiles reads the cached records of the given files, in their original
// file order. A nil set loads every cached file.
func (c *Cache) LoadFiles(paths map[string]struct{}) (model.Ledger, error) {
	var led model.Ledger
	wanted := func(p string) bool {
		if paths == nil {
			return true
		}
		_, ok := paths[p]
		return ok
	}

	rows, err := c.db.Query(`SELECT
		id, file_path, kind, date, amount, description, category,
		recurrence, recurrence_end, account
		FROM transactions ORDER BY file_path, seq`)
	if err != nil {
		return led, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var t model.Transaction
		var kind, date, recurrence string
		var description, category, account, recurrenceEnd sql.NullString
		var amount decimal.Decimal

		err := rows.Scan(&t.ID, &t.FilePath, &kind, &date, &amount, &description, &category,
			&recurrence, &recurrenceEnd, &account)
		if err != nil {
			return led, err
		}
		if !wanted(t.FilePath) {
			continue
		}

		t.Kind = model.TransactionKind(kind)
		t.Amount = amount
		t.Description = description.String
		t.Category = category.String
		t.Account = account.String
		t.Recurrence = model.ParseRecurrence(recurrence)
		if t.Date, err = time.Parse(dateLayout, date); err != nil {
			return led, fmt.Errorf("cached date %q: %w", date, err)
		}
		if recurrenceEnd.Valid && recurrenceEnd.String != "" {
			end, err := time.Parse(dateLayout, recurrenceEnd.String)
			if err == nil {
				t.RecurrenceEndDate = &end
			}
		}

		if t.Kind == model.KindIncome {
			led.Income = append(led.Income, t)
		} else {
			led.Expenses = append(led.Expenses, t)
		}
	}
	if err := rows.Err(); err != nil {
		return led, err
	}

	liabRows, err := c.db.Query(`SELECT
		id, file_path, name, category, balance, interest_rate, minimum_payment, account
		FROM liabilities ORDER BY file_path, seq`)
	if err != nil {
		return led, err
	}
	defer func() { _ = liabRows.Close() }()

	for liabRows.Next() {
		var l model.Liability
		var category string
		var account sql.NullString
		err := liabRows.Scan(&l.ID, &l.FilePath, &l.Name, &category,
			&l.Balance, &l.InterestRate, &l.MinimumPayment, &account)
		if err != nil {
			return led, err
		}
		if !wanted(l.FilePath) {
			continue
		}
		l.Category = model.ParseLiabilityCategory(category)
		l.Account = account.String
		led.Liabilities = append(led.Liabilities, l)
	}

	return led, liabRows.Err()
}

// DeleteFile removes a file's tracker entry and, by cascade, its records.
func (c *Cache) DeleteFile(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

// RecordCount returns the number of cached records across all files.
func (c *Cache) RecordCount() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM transactions) + (SELECT COUNT(*) FROM liabilities)`).Scan(&count)
	return count, err
}
