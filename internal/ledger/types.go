package ledger

import "github.com/shopspring/decimal"

// RawRecord is one line of a ledger JSONL file. Amounts decode from JSON
// numbers or strings.
type RawRecord struct {
	Type        string `json:"type"`
	ID          string `json:"id,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	// income and expense
	Amount            decimal.Decimal `json:"amount"`
	Recurrence        string          `json:"recurrence,omitempty"`
	RecurrenceEndDate string          `json:"recurrence_end_date,omitempty"`

	// liability
	Name           string          `json:"name,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
}

// DiscoveredFile represents a JSONL file found during directory scanning.
type DiscoveredFile struct {
	Path    string
	Account string // first directory under the ledger root, or the file stem
}
