package engine

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// isoMinutes renders profile timestamps, truncated to the minute.
const isoMinutes = "2006-01-02T15:04"

// CustomerProfile summarizes a party, its accounts and its
// transaction history. An unknown customer yields a fully populated
// zero-value profile, not an error.
type CustomerProfile struct {
	CustomerID         string   `json:"customer_id"`
	PartnerName        *string  `json:"partner_name"`
	PartnerClassCode   *string  `json:"partner_class_code"`
	PartnerOpenDate    *string  `json:"partner_open_date"`
	PartnerCloseDate   *string  `json:"partner_close_date"`
	Country            *string  `json:"country"`
	NumAccounts        int      `json:"num_accounts"`
	Currencies         []string `json:"currencies"`
	FirstTransactionAt *string  `json:"first_transaction_at"`
	LastTransactionAt  *string  `json:"last_transaction_at"`
	TransactionCount   int      `json:"transaction_count"`
	TotalDebitAmount   float64  `json:"total_debit_amount"`
	TotalCreditAmount  float64  `json:"total_credit_amount"`
}

// GetCustomerProfile aggregates the party record, its domicile
// country, linked accounts and transaction statistics into one
// summary.
func (e *Engine) GetCustomerProfile(ctx context.Context, customerID string) (*CustomerProfile, error) {
	parties, err := e.parties(ctx)
	if err != nil {
		return nil, err
	}

	var party *Party
	for i := range parties {
		if parties[i].ID == customerID {
			party = &parties[i]
			break
		}
	}

	profile := &CustomerProfile{
		CustomerID: customerID,
		Currencies: []string{},
	}
	if party == nil {
		return profile, nil
	}

	profile.PartnerName = &party.Name
	profile.PartnerClassCode = &party.ClassCode
	profile.PartnerOpenDate = &party.OpenDate
	profile.PartnerCloseDate = &party.CloseDate

	country, err := e.domicileCountry(ctx, customerID)
	if err != nil {
		return nil, err
	}
	profile.Country = country

	accountIDs, err := e.customerAccountIDs(ctx, customerID)
	if err != nil {
		return nil, err
	}
	accounts, err := e.accountsByID(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	profile.NumAccounts = len(accounts)
	profile.Currencies = distinctCurrencies(accounts)

	txs, err := e.transactionsForAccounts(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	profile.TransactionCount = len(txs)

	var first, last *time.Time
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, tx := range txs {
		if tx.Timestamp != nil {
			if first == nil || tx.Timestamp.Before(*first) {
				first = tx.Timestamp
			}
			if last == nil || tx.Timestamp.After(*last) {
				last = tx.Timestamp
			}
		}

		if tx.IsDebit() {
			totalDebit = totalDebit.Add(tx.Amount)
		} else {
			totalCredit = totalCredit.Add(tx.Amount)
		}
	}

	if first != nil {
		s := first.Format(isoMinutes)
		profile.FirstTransactionAt = &s
	}
	if last != nil {
		s := last.Format(isoMinutes)
		profile.LastTransactionAt = &s
	}
	profile.TotalDebitAmount = roundMoney(totalDebit)
	profile.TotalCreditAmount = roundMoney(totalCredit)

	return profile, nil
}

// domicileCountry returns the first active domicile association for
// the party, in table order. There is no defined tie-break when a
// party has several active domicile rows; the first one wins.
func (e *Engine) domicileCountry(ctx context.Context, partnerID string) (*string, error) {
	countries, err := e.countries(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range countries {
		if c.PartnerID == partnerID && c.CountryType == countryTypeDomicile && c.StatusCode == statusActive {
			name := c.CountryName
			return &name, nil
		}
	}
	return nil, nil
}

// distinctCurrencies returns the sorted, de-duplicated non-empty
// currency codes across the given accounts.
func distinctCurrencies(accounts []Account) []string {
	seen := make(map[string]struct{})
	for _, a := range accounts {
		if a.Currency == "" {
			continue
		}
		seen[a.Currency] = struct{}{}
	}

	currencies := make([]string, 0, len(seen))
	for c := range seen {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	return currencies
}

// roundMoney rounds a monetary total to 2 decimal places for output.
func roundMoney(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
