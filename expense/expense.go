// Package expense implements the expense tracker widget core: a ledger of
// income and expense transactions with a balance derived from scratch on
// every read.
package expense

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"widgetkit/domain"
	"widgetkit/notify"
	"widgetkit/render"
	"widgetkit/storage"
	"widgetkit/store"
	"widgetkit/widget"
)

var (
	// ErrEmptyName rejects transactions without a description.
	ErrEmptyName = errors.New("expense: description is empty")
	// ErrInvalidAmount rejects non-positive or non-finite amounts.
	ErrInvalidAmount = errors.New("expense: amount must be greater than zero")
	// ErrUnknownKind rejects kinds other than income and expense.
	ErrUnknownKind = errors.New("expense: unknown transaction kind")
)

// Tracker is one expense tracker widget instance.
type Tracker struct {
	store   *store.Store[domain.Transaction]
	slot    *storage.Slot[domain.Transaction]
	notices *notify.Center
	logger  *log.Logger
	now     func() time.Time
}

// New creates a Tracker over the given snapshot slot.
func New(slot *storage.Slot[domain.Transaction], logger *log.Logger) *Tracker {
	if slot == nil {
		panic("expense.New: slot is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Tracker{
		store:   store.New(func(tx domain.Transaction) int64 { return tx.ID }),
		slot:    slot,
		notices: notify.NewCenter(),
		logger:  logger,
		now:     time.Now,
	}
}

// Load replaces the in-memory ledger with the persisted snapshot.
func (t *Tracker) Load(ctx context.Context) {
	t.store.Replace(t.slot.Load(ctx))
}

// Add records a transaction. Validation failures reject the action with a
// notice before any mutation.
func (t *Tracker) Add(ctx context.Context, name string, amount float64, kind domain.TransactionKind) (domain.Transaction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		t.notices.Push(notify.Error, "Please enter a description!", notify.FeedbackTTL, t.now())
		return domain.Transaction{}, ErrEmptyName
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		t.notices.Push(notify.Error, "Please enter a valid amount greater than 0!", notify.FeedbackTTL, t.now())
		return domain.Transaction{}, ErrInvalidAmount
	}
	if kind != domain.KindIncome && kind != domain.KindExpense {
		return domain.Transaction{}, ErrUnknownKind
	}

	tx := t.store.Add(domain.Transaction{
		ID:     store.NextID(),
		Name:   name,
		Amount: amount,
		Kind:   kind,
		Date:   t.now().UTC().Format(time.RFC3339),
	})
	t.persist(ctx)
	t.notices.Push(notify.Success, "Transaction added!", notify.FeedbackTTL, t.now())
	return tx, nil
}

// Delete removes a transaction by id. Missing ids are ignored.
func (t *Tracker) Delete(ctx context.Context, id int64) {
	if _, ok := t.store.Find(id); !ok {
		return
	}
	t.store.Remove(id)
	t.persist(ctx)
	t.notices.Push(notify.Success, "Transaction deleted!", notify.FeedbackTTL, t.now())
}

// ClearAll empties the ledger after confirmation. An already-empty ledger is
// a silent no-op.
func (t *Tracker) ClearAll(ctx context.Context, confirmed bool) error {
	if t.store.Len() == 0 {
		return nil
	}
	if !confirmed {
		return &widget.ConfirmationRequired{Prompt: "Delete all transactions? This cannot be undone."}
	}
	t.store.Clear()
	t.persist(ctx)
	t.notices.Push(notify.Success, "All transactions cleared!", notify.FeedbackTTL, t.now())
	return nil
}

// Balance folds over the full ledger: income adds, expense subtracts. Being
// recomputed every call keeps it order-independent and drift-free.
func (t *Tracker) Balance() float64 {
	var balance float64
	for _, tx := range t.store.Records() {
		if tx.Kind == domain.KindIncome {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
	}
	return balance
}

// Transactions returns a copy of the ledger in insertion order.
func (t *Tracker) Transactions() []domain.Transaction {
	return t.store.Records()
}

func (t *Tracker) persist(ctx context.Context) {
	if err := t.slot.Save(ctx, t.store.Records()); err != nil {
		t.logger.WithError(err).Warn("ledger snapshot save failed, continuing in memory")
	}
}

// Tone classifies the balance display.
type Tone string

const (
	ToneNeutral  Tone = ""
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// Row is one rendered transaction line.
type Row struct {
	ID     int64
	Name   string
	Amount string
	When   string
	Income bool
}

// View is the expense tracker projection.
type View struct {
	Rows        []Row
	Empty       bool
	Balance     string
	BalanceTone Tone
	Notices     []notify.Notice
}

// View projects the ledger for display: newest first, relative dates, signed
// amounts. Sorting happens on a copy; storage order stays insertion order.
func (t *Tracker) View(now time.Time) View {
	txs := t.store.Records()
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date > txs[j].Date })

	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		income := tx.Kind == domain.KindIncome
		when := tx.Date
		if parsed, err := time.Parse(time.RFC3339, tx.Date); err == nil {
			when = render.RelativeDate(parsed, now)
		}
		rows = append(rows, Row{
			ID:     tx.ID,
			Name:   tx.Name,
			Amount: render.SignedMoney(tx.Amount, income),
			When:   when,
			Income: income,
		})
	}

	balance := t.Balance()
	tone := ToneNeutral
	switch {
	case balance > 0:
		tone = TonePositive
	case balance < 0:
		tone = ToneNegative
	}
	return View{
		Rows:        rows,
		Empty:       len(rows) == 0,
		Balance:     render.Balance(balance),
		BalanceTone: tone,
		Notices:     t.notices.Active(now),
	}
}
