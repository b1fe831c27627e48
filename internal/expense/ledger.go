package expense

// Ledger is the append-only, insertion-ordered collection of confirmed
// expenses for one session. It never rejects an append and is destroyed with
// the session.
type Ledger struct {
	Records []ExpenseRecord `json:"records"`
}

// Append adds a record to the end of the ledger
func (l *Ledger) Append(record ExpenseRecord) {
	l.Records = append(l.Records, record)
}

// List returns a snapshot of the records in insertion order
func (l *Ledger) List() []ExpenseRecord {
	out := make([]ExpenseRecord, len(l.Records))
	copy(out, l.Records)
	return out
}

// Count returns the number of records
func (l *Ledger) Count() int {
	return len(l.Records)
}

// TotalCents returns the sum of all record amounts in centavos
func (l *Ledger) TotalCents() int {
	var total int
	for _, r := range l.Records {
		total += r.AmountCents
	}
	return total
}

// Clear empties the ledger. Only used at session teardown.
func (l *Ledger) Clear() {
	l.Records = nil
}
