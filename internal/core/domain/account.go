package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountNormal is the side on which an account's natural balance increases.
type AccountNormal string

const (
	NormalCredit AccountNormal = "credit"
	NormalDebit  AccountNormal = "debit"
)

// Valid reports whether n is one of the two normal sides.
func (n AccountNormal) Valid() bool {
	return n == NormalCredit || n == NormalDebit
}

// AccountRootType is the top level classification of an account.
type AccountRootType string

const (
	RootAsset     AccountRootType = "asset"
	RootLiability AccountRootType = "liability"
	RootEquity    AccountRootType = "equity"
	RootIncome    AccountRootType = "income"
	RootExpense   AccountRootType = "expense"
)

// AccountParentType groups account types beneath a root type.
type AccountParentType string

const (
	ParentCurrentAsset      AccountParentType = "current-asset"
	ParentFixedAsset        AccountParentType = "fixed-asset"
	ParentNonCurrentAsset   AccountParentType = "non-current-asset"
	ParentCurrentLiability  AccountParentType = "current-liability"
	ParentLongTermLiability AccountParentType = "long-term-liability"
	ParentEquity            AccountParentType = "equity"
	ParentIncome            AccountParentType = "income"
	ParentExpense           AccountParentType = "expense"
)

// AccountType is the concrete type stored on an account.
type AccountType string

const (
	AccountTypeCash                  AccountType = "cash"
	AccountTypeBank                  AccountType = "bank"
	AccountTypeAccountsReceivable    AccountType = "accounts-receivable"
	AccountTypeInventory             AccountType = "inventory"
	AccountTypeOtherCurrentAsset     AccountType = "other-current-asset"
	AccountTypeFixedAsset            AccountType = "fixed-asset"
	AccountTypeNonCurrentAsset       AccountType = "non-current-asset"
	AccountTypeAccountsPayable       AccountType = "accounts-payable"
	AccountTypeCreditCard            AccountType = "credit-card"
	AccountTypeTaxPayable            AccountType = "tax-payable"
	AccountTypeOtherCurrentLiability AccountType = "other-current-liability"
	AccountTypeLongTermLiability     AccountType = "long-term-liability"
	AccountTypeEquity                AccountType = "equity"
	AccountTypeIncome                AccountType = "income"
	AccountTypeOtherIncome           AccountType = "other-income"
	AccountTypeCostOfGoodsSold       AccountType = "cost-of-goods-sold"
	AccountTypeExpense               AccountType = "expense"
	AccountTypeOtherExpense          AccountType = "other-expense"
)

type accountTypeMeta struct {
	root   AccountRootType
	parent AccountParentType
	normal AccountNormal
}

var accountTypes = map[AccountType]accountTypeMeta{
	AccountTypeCash:                  {RootAsset, ParentCurrentAsset, NormalDebit},
	AccountTypeBank:                  {RootAsset, ParentCurrentAsset, NormalDebit},
	AccountTypeAccountsReceivable:    {RootAsset, ParentCurrentAsset, NormalDebit},
	AccountTypeInventory:             {RootAsset, ParentCurrentAsset, NormalDebit},
	AccountTypeOtherCurrentAsset:     {RootAsset, ParentCurrentAsset, NormalDebit},
	AccountTypeFixedAsset:            {RootAsset, ParentFixedAsset, NormalDebit},
	AccountTypeNonCurrentAsset:       {RootAsset, ParentNonCurrentAsset, NormalDebit},
	AccountTypeAccountsPayable:       {RootLiability, ParentCurrentLiability, NormalCredit},
	AccountTypeCreditCard:            {RootLiability, ParentCurrentLiability, NormalCredit},
	AccountTypeTaxPayable:            {RootLiability, ParentCurrentLiability, NormalCredit},
	AccountTypeOtherCurrentLiability: {RootLiability, ParentCurrentLiability, NormalCredit},
	AccountTypeLongTermLiability:     {RootLiability, ParentLongTermLiability, NormalCredit},
	AccountTypeEquity:                {RootEquity, ParentEquity, NormalCredit},
	AccountTypeIncome:                {RootIncome, ParentIncome, NormalCredit},
	AccountTypeOtherIncome:           {RootIncome, ParentIncome, NormalCredit},
	AccountTypeCostOfGoodsSold:       {RootExpense, ParentExpense, NormalDebit},
	AccountTypeExpense:               {RootExpense, ParentExpense, NormalDebit},
	AccountTypeOtherExpense:          {RootExpense, ParentExpense, NormalDebit},
}

// Known reports whether t is part of the chart of accounts taxonomy.
func (t AccountType) Known() bool {
	_, ok := accountTypes[t]
	return ok
}

// RootType returns the root classification, or "" for unknown types.
func (t AccountType) RootType() AccountRootType {
	return accountTypes[t].root
}

// ParentType returns the parent classification, or "" for unknown types.
func (t AccountType) ParentType() AccountParentType {
	return accountTypes[t].parent
}

// Normal returns the normal side of the type, or "" for unknown types.
func (t AccountType) Normal() AccountNormal {
	return accountTypes[t].normal
}

// Account represents a ledger account in the chart of accounts.
type Account struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Description  string          `json:"description,omitempty"`
	IsActive     bool            `json:"isActive"`
	Amount       decimal.Decimal `json:"amount"` // Running balance kept by journal posting
	CreatedAt    time.Time       `json:"createdAt"`
}

// Normal returns the account's normal side derived from its type.
func (a Account) Normal() AccountNormal {
	return a.AccountType.Normal()
}

// IsRootType reports whether the account belongs to the given root type.
func (a Account) IsRootType(root AccountRootType) bool {
	return a.AccountType.RootType() == root
}

// IsParentType reports whether the account belongs to the given parent type.
func (a Account) IsParentType(parent AccountParentType) bool {
	return a.AccountType.ParentType() == parent
}

// AccountSet indexes accounts by id.
type AccountSet map[int64]Account

// NewAccountSet builds an AccountSet from a slice.
func NewAccountSet(accounts []Account) AccountSet {
	set := make(AccountSet, len(accounts))
	for _, a := range accounts {
		set[a.ID] = a
	}
	return set
}

// Normal returns the normal side for the account id, if the account is known.
func (s AccountSet) Normal(accountID int64) (AccountNormal, bool) {
	a, ok := s[accountID]
	if !ok {
		return "", false
	}
	n := a.Normal()
	return n, n.Valid()
}

// Missing returns the ids from ids that are not present in the set, in order.
func (s AccountSet) Missing(ids []int64) []int64 {
	var missing []int64
	for _, id := range ids {
		if _, ok := s[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
