package domain

// JournalSource is a document that can be posted to the ledger.
// The set of implementations is closed: Expense, Bill and ManualJournal.
type JournalSource interface {
	// SourceReference identifies the document the posted entries belong to.
	SourceReference() (ReferenceType, int64)
	// AccountIDs lists every account the posting touches.
	AccountIDs() []int64

	journalSource()
}

func (e Expense) SourceReference() (ReferenceType, int64) { return ReferenceExpense, e.ID }

// AccountIDs returns the payment account followed by the category accounts.
func (e Expense) AccountIDs() []int64 {
	return ExpenseBatch{e}.AccountIDs()
}

func (Expense) journalSource() {}

func (b Bill) SourceReference() (ReferenceType, int64) { return ReferenceBill, b.ID }

// AccountIDs returns the payable account followed by the entry cost accounts.
func (b Bill) AccountIDs() []int64 {
	seen := map[int64]struct{}{b.PayableAccountID: {}}
	ids := []int64{b.PayableAccountID}
	for _, e := range b.Entries {
		if _, ok := seen[e.CostAccountID]; !ok {
			seen[e.CostAccountID] = struct{}{}
			ids = append(ids, e.CostAccountID)
		}
	}
	return ids
}

func (Bill) journalSource() {}

func (m ManualJournal) SourceReference() (ReferenceType, int64) { return ReferenceManualJournal, m.ID }

func (ManualJournal) journalSource() {}

// SourceIDs groups the ids of sources by reference type, preserving order.
func SourceIDs(sources []JournalSource) map[ReferenceType][]int64 {
	out := make(map[ReferenceType][]int64)
	for _, s := range sources {
		t, id := s.SourceReference()
		out[t] = append(out[t], id)
	}
	return out
}
