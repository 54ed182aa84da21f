// Package recon implements the manual bank-reconciliation matcher: an
// operator pairs one bank entry with one transaction, and the matcher tracks
// the unmatched pools and the committed matches.
package recon

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"keepara/model"
)

var (
	// ErrSelectionIncomplete is reported when Match is called without both
	// sides selected. It is a warning: no state changes.
	ErrSelectionIncomplete = errors.New("select both a bank entry and a transaction to match")

	// ErrNotInPool is reported when a selection targets a record that is
	// not currently unmatched.
	ErrNotInPool = errors.New("record is not in the unmatched pool")
)

// ReconcileFunc is the backing write issued when a transaction is matched or
// unmatched. A failure rolls the matcher state back.
type ReconcileFunc func(transactionID int, reconciled bool) error

// Option configures a Matcher.
type Option func(*Matcher)

// WithReconcileFunc sets the backing write for the reconciled flag.
func WithReconcileFunc(fn ReconcileFunc) Option {
	return func(m *Matcher) { m.reconcile = fn }
}

// WithClock overrides the match timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Matcher) { m.now = now }
}

// Matcher holds the reconciliation state for one operator session. All
// methods are safe for concurrent use, though the workflow assumes a single
// operator; matching is a single synchronous state update with no partial
// or pending intermediate state.
type Matcher struct {
	mu        sync.Mutex
	bank      []model.BankEntry
	txns      []model.Transaction
	matches   []model.Match
	selBank   *model.BankEntry
	selTxn    *model.Transaction
	reconcile ReconcileFunc
	now       func() time.Time
}

// NewMatcher creates a matcher seeded with the unmatched pools.
func NewMatcher(bank []model.BankEntry, txns []model.Transaction, opts ...Option) *Matcher {
	m := &Matcher{
		bank: append([]model.BankEntry(nil), bank...),
		txns: append([]model.Transaction(nil), txns...),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reset replaces the unmatched pools with freshly loaded ones and drops the
// in-session matches and selections. A match survives a reset only through
// the transaction's reconciled flag in the backing store.
func (m *Matcher) Reset(bank []model.BankEntry, txns []model.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bank = append([]model.BankEntry(nil), bank...)
	m.txns = append([]model.Transaction(nil), txns...)
	m.matches = nil
	m.selBank = nil
	m.selTxn = nil
}

// SelectBankEntry marks the bank-side candidate. No compatibility check is
// made against the transaction side; amounts and dates may differ freely.
func (m *Matcher) SelectBankEntry(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bank {
		if m.bank[i].ID == id {
			entry := m.bank[i]
			m.selBank = &entry
			return nil
		}
	}
	return ErrNotInPool
}

// SelectTransaction marks the transaction-side candidate.
func (m *Matcher) SelectTransaction(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.txns {
		if m.txns[i].ID == id {
			txn := m.txns[i]
			m.selTxn = &txn
			return nil
		}
	}
	return ErrNotInPool
}

// ClearSelection drops both candidates.
func (m *Matcher) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selBank = nil
	m.selTxn = nil
}

// Selection returns copies of the current candidates; either may be nil.
func (m *Matcher) Selection() (*model.BankEntry, *model.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bank *model.BankEntry
	var txn *model.Transaction
	if m.selBank != nil {
		entry := *m.selBank
		bank = &entry
	}
	if m.selTxn != nil {
		t := *m.selTxn
		txn = &t
	}
	return bank, txn
}

// Match commits the current selection: both records leave their unmatched
// pools, a Match carrying full snapshots and the absolute amount difference
// is recorded, and the selection is cleared. Without both sides selected it
// returns ErrSelectionIncomplete and changes nothing. A failed backing
// write rolls everything back.
func (m *Matcher) Match() (model.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selBank == nil || m.selTxn == nil {
		return model.Match{}, ErrSelectionIncomplete
	}

	entry := *m.selBank
	txn := *m.selTxn

	match := model.Match{
		ID:            uuid.NewString(),
		BankEntryID:   entry.ID,
		TransactionID: txn.ID,
		BankEntry:     entry,
		Transaction:   txn,
		MatchedAt:     m.now(),
		Difference:    entry.Amount.Sub(txn.Amount).Abs(),
	}

	m.removeBank(entry.ID)
	m.removeTxn(txn.ID)
	m.matches = append(m.matches, match)
	m.selBank = nil
	m.selTxn = nil

	if m.reconcile != nil {
		if err := m.reconcile(txn.ID, true); err != nil {
			// Roll back the local mutation so the pools still agree
			// with the backing store.
			m.matches = m.matches[:len(m.matches)-1]
			m.bank = append(m.bank, entry)
			m.txns = append(m.txns, txn)
			return model.Match{}, err
		}
	}

	return match, nil
}

// Unmatch restores both sides of the match to their unmatched pools (by
// append, not original position) and removes the match. An unknown ID is a
// no-op.
func (m *Matcher) Unmatch(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.matches {
		if m.matches[i].ID != matchID {
			continue
		}
		match := m.matches[i]

		m.bank = append(m.bank, match.BankEntry)
		m.txns = append(m.txns, match.Transaction)
		m.matches = append(m.matches[:i], m.matches[i+1:]...)

		if m.reconcile != nil {
			if err := m.reconcile(match.TransactionID, false); err != nil {
				m.removeBank(match.BankEntryID)
				m.removeTxn(match.TransactionID)
				m.matches = append(m.matches, match)
				return err
			}
		}
		return nil
	}
	return nil
}

// BankEntries returns the unmatched bank pool filtered by a case-insensitive
// substring match over description and reference. Filtering never touches
// the pool itself; an empty filter returns the full pool.
func (m *Matcher) BankEntries(filter string) []model.BankEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.BankEntry, 0, len(m.bank))
	for _, entry := range m.bank {
		if filter == "" || containsFold(entry.Description, filter) || containsFold(entry.Reference, filter) {
			out = append(out, entry)
		}
	}
	return out
}

// Transactions returns the unmatched transaction pool filtered by a
// case-insensitive substring match over description and category.
func (m *Matcher) Transactions(filter string) []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Transaction, 0, len(m.txns))
	for _, txn := range m.txns {
		if filter == "" || containsFold(txn.Description, filter) || containsFold(txn.Category, filter) {
			out = append(out, txn)
		}
	}
	return out
}

// Matches returns the committed matches in match order.
func (m *Matcher) Matches() []model.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Match(nil), m.matches...)
}

func (m *Matcher) removeBank(id int) {
	for i := range m.bank {
		if m.bank[i].ID == id {
			m.bank = append(m.bank[:i], m.bank[i+1:]...)
			return
		}
	}
}

func (m *Matcher) removeTxn(id int) {
	for i := range m.txns {
		if m.txns[i].ID == id {
			m.txns = append(m.txns[:i], m.txns[i+1:]...)
			return
		}
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
