package domain

// TransactionKind discriminates income from expense entries.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Transaction is a single ledger entry. The json field names match the
// persisted snapshot shape.
type Transaction struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Amount float64         `json:"amount"`
	Kind   TransactionKind `json:"type"`
	Date   string          `json:"date"`
}
