// Package seed holds the default chart of accounts created on first start.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

//go:embed accounts.yaml
var defaultAccountsYAML []byte

type accountsFile struct {
	Accounts []accountRecord `yaml:"accounts"`
}

type accountRecord struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Currency    string `yaml:"currency"`
	Description string `yaml:"description"`
}

// DefaultAccounts returns the embedded chart of accounts.
func DefaultAccounts() ([]domain.Account, error) {
	return ParseAccounts(defaultAccountsYAML, "")
}

// ParseAccounts decodes a YAML chart. Accounts without a currency get
// currency; unknown types and duplicate codes are rejected.
func ParseAccounts(data []byte, currency string) ([]domain.Account, error) {
	var file accountsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Accounts))
	accounts := make([]domain.Account, 0, len(file.Accounts))
	for i, rec := range file.Accounts {
		if rec.Code == "" || rec.Name == "" {
			return nil, fmt.Errorf("account %d: code and name are required", i+1)
		}
		if _, dup := seen[rec.Code]; dup {
			return nil, fmt.Errorf("account %d: duplicate code %s", i+1, rec.Code)
		}
		seen[rec.Code] = struct{}{}

		t := domain.AccountType(rec.Type)
		if !t.Known() {
			return nil, fmt.Errorf("account %s: unknown type %q", rec.Code, rec.Type)
		}
		cur := rec.Currency
		if cur == "" {
			cur = currency
		}
		accounts = append(accounts, domain.Account{
			Code:         rec.Code,
			Name:         rec.Name,
			AccountType:  t,
			CurrencyCode: cur,
			Description:  rec.Description,
			IsActive:     true,
		})
	}
	return accounts, nil
}

// Loader returns DefaultAccounts with currency applied to every account
// that does not name one.
func Loader(currency string) func() ([]domain.Account, error) {
	return func() ([]domain.Account, error) {
		return ParseAccounts(defaultAccountsYAML, currency)
	}
}
