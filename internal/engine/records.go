package engine

import (
	"context"
	"strings"
	"time"

	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
	"github.com/shopspring/decimal"
)

// Table names as they appear in the underlying datasets.
const (
	TableParty       = "partner"
	TablePartyRole   = "partner_role"
	TableAccountLink = "br_to_account"
	TableAccount     = "account"
	TableTransaction = "transactions"
	TableCountry     = "partner_country"
)

const (
	entityTypeBR        = "BR"
	countryTypeDomicile = "domicile"
	statusActive        = "1"
)

// timestampLayout is the transaction timestamp format; date-only
// fields use dateLayout.
const (
	timestampLayout = "2006-01-02 15:04"
	dateLayout      = "2006-01-02"
)

// Party is the canonical customer record.
type Party struct {
	ID        string
	Name      string
	ClassCode string
	OpenDate  string
	CloseDate string
	Phone     string
}

// PartyRole links a party to an entity of a given type. The
// relationship end date is carried but not consulted by any current
// filter.
type PartyRole struct {
	PartnerID  string
	EntityType string
	EntityID   string
	EndDate    string
}

// AccountLink ties a business relationship to an account. The status
// code is not consulted: all links count, active or not.
type AccountLink struct {
	BRID       string
	AccountID  string
	StatusCode string
}

// Account is one account record.
type Account struct {
	ID       string
	Currency string
}

// Transaction is one transaction row with its typed fields resolved
// once at load. Timestamp is nil and Amount zero when the raw values
// do not parse; the raw row is retained for listing.
type Transaction struct {
	AccountID    string
	Timestamp    *time.Time
	Amount       decimal.Decimal
	Direction    string
	Currency     string
	TransferType string
	Raw          tables.Row
}

// IsDebit reports whether the transaction moves money out of the
// account.
func (t Transaction) IsDebit() bool {
	return strings.EqualFold(t.Direction, "debit")
}

// CountryAssociation links a party to a country with a type tag and
// status code.
type CountryAssociation struct {
	PartnerID   string
	CountryName string
	CountryType string
	StatusCode  string
}

func partyFromRow(r tables.Row) Party {
	return Party{
		ID:        r["partner_id"],
		Name:      r["partner_name"],
		ClassCode: r["partner_class_code"],
		OpenDate:  r["partner_open_date"],
		CloseDate: r["partner_close_date"],
		Phone:     r["partner_phone_number"],
	}
}

func roleFromRow(r tables.Row) PartyRole {
	return PartyRole{
		PartnerID:  r["partner_id"],
		EntityType: r["entity_type"],
		EntityID:   r["entity_id"],
		EndDate:    r["relationship_end_date"],
	}
}

func linkFromRow(r tables.Row) AccountLink {
	return AccountLink{
		BRID:       r["br_id"],
		AccountID:  r["account_id"],
		StatusCode: r["status_code"],
	}
}

func accountFromRow(r tables.Row) Account {
	return Account{
		ID:       r["account_id"],
		Currency: r["account_currency"],
	}
}

func transactionFromRow(r tables.Row) Transaction {
	return Transaction{
		AccountID:    r["Account ID"],
		Timestamp:    parseTimestamp(r["Date"]),
		Amount:       parseAmount(r["Amount"]),
		Direction:    r["Debit/Credit"],
		Currency:     r["Currency"],
		TransferType: r["Transfer_Type"],
		Raw:          r,
	}
}

func countryFromRow(r tables.Row) CountryAssociation {
	return CountryAssociation{
		PartnerID:   r["partner_id"],
		CountryName: r["country_name"],
		CountryType: r["country_type"],
		StatusCode:  r["partner_country_status_code"],
	}
}

// parseTimestamp parses a "YYYY-MM-DD HH:MM" value. Unparseable or
// empty values yield nil, never an error.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// parseDate parses a date-only "YYYY-MM-DD" value; nil when it does
// not parse.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// parseAmount parses a decimal amount string. Malformed or missing
// amounts count as zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// The loaders below convert raw rows into typed records once, on
// first use, and memoize the result on the engine. Raw rows stay
// cached in the table store; the typed views here are what every
// query path reads.

func (e *Engine) parties(ctx context.Context) ([]Party, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.partyRecords != nil {
		return e.partyRecords, nil
	}
	rows, err := e.store.Load(ctx, TableParty)
	if err != nil {
		return nil, err
	}
	out := make([]Party, 0, len(rows))
	for _, r := range rows {
		out = append(out, partyFromRow(r))
	}
	e.partyRecords = out
	e.log.Debug().Str("table", TableParty).Int("rows", len(out)).Msg("Materialized table")
	return out, nil
}

func (e *Engine) roles(ctx context.Context) ([]PartyRole, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.roleRecords != nil {
		return e.roleRecords, nil
	}
	rows, err := e.store.Load(ctx, TablePartyRole)
	if err != nil {
		return nil, err
	}
	out := make([]PartyRole, 0, len(rows))
	for _, r := range rows {
		out = append(out, roleFromRow(r))
	}
	e.roleRecords = out
	e.log.Debug().Str("table", TablePartyRole).Int("rows", len(out)).Msg("Materialized table")
	return out, nil
}

func (e *Engine) links(ctx context.Context) ([]AccountLink, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.linkRecords != nil {
		return e.linkRecords, nil
	}
	rows, err := e.store.Load(ctx, TableAccountLink)
	if err != nil {
		return nil, err
	}
	out := make([]AccountLink, 0, len(rows))
	for _, r := range rows {
		out = append(out, linkFromRow(r))
	}
	e.linkRecords = out
	e.log.Debug().Str("table", TableAccountLink).Int("rows", len(out)).Msg("Materialized table")
	return out, nil
}

func (e *Engine) accounts(ctx context.Context) ([]Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.accountRecords != nil {
		return e.accountRecords, nil
	}
	rows, err := e.store.Load(ctx, TableAccount)
	if err != nil {
		return nil, err
	}
	out := make([]Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, accountFromRow(r))
	}
	e.accountRecords = out
	e.log.Debug().Str("table", TableAccount).Int("rows", len(out)).Msg("Materialized table")
	return out, nil
}

func (e *Engine) transactions(ctx context.Context) ([]Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.transactionRecords != nil {
		return e.transactionRecords, nil
	}
	rows, err := e.store.Load(ctx, TableTransaction)
	if err != nil {
		return nil, err
	}
	out := make([]Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, transactionFromRow(r))
	}
	e.transactionRecords = out
	e.log.Debug().Str("table", TableTransaction).Int("rows", len(out)).Msg("Materialized table")
	return out, nil
}

func (e *Engine) countries(ctx context.Context) ([]CountryAssociation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.countryRecords != nil {
		return e.countryRecords, nil
	}
	rows, err := e.store.Load(ctx, TableCountry)
	if err != nil {
		return nil, err
	}
	out := make([]CountryAssociation, 0, len(rows))
	for _, r := range rows {
		out = append(out, countryFromRow(r))
	}
	e.countryRecords = out
	e.log.Debug().Str("table", TableCountry).Int("rows", len(out)).Msg("Materialized table")
	return out, nil
}
