package model

// Ledger is the full set of records loaded from a ledger directory.
type Ledger struct {
	Income      []Transaction
	Expenses    []Transaction
	Liabilities []Liability
}

// Append adds every record of o to l.
func (l *Ledger) Append(o Ledger) {
	l.Income = append(l.Income, o.Income...)
	l.Expenses = append(l.Expenses, o.Expenses...)
	l.Liabilities = append(l.Liabilities, o.Liabilities...)
}

// Len returns the total record count.
func (l Ledger) Len() int {
	return len(l.Income) + len(l.Expenses) + len(l.Liabilities)
}

// Empty reports whether the ledger holds no records.
func (l Ledger) Empty() bool {
	return l.Len() == 0
}

// Transactions returns income followed by expenses.
func (l Ledger) Transactions() []Transaction {
	out := make([]Transaction, 0, len(l.Income)+len(l.Expenses))
	out = append(out, l.Income...)
	return append(out, l.Expenses...)
}
