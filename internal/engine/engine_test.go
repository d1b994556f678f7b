package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/logger"
	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource serves fixture rows from memory.
type memSource struct {
	tables map[string][]tables.Row
}

func (s *memSource) ReadTable(ctx context.Context, name string) ([]tables.Row, error) {
	rows, ok := s.tables[name]
	if !ok {
		return nil, &tables.DataSourceError{Table: name, Err: fmt.Errorf("no such table")}
	}
	return rows, nil
}

// fixtureEngine builds an engine over the shared test dataset.
//
// p_1 owns br_1 -> a_1 (CHF) with two debit transactions: 10.00 on
// 2025-01-05 and 20.00 on 2025-02-10.
// p_2 owns br_2 -> a_2 (EUR, inactive link) with a credit, a
// malformed-amount debit, a malformed-date debit and a USD card
// debit.
// p_3 has no business relationships. The "muster" parties exist for
// resolver ordering and cap tests.
func fixtureEngine(t *testing.T) *Engine {
	t.Helper()

	source := &memSource{tables: map[string][]tables.Row{
		TableParty: {
			{"partner_id": "p_1", "partner_name": "Alice Meier", "partner_phone_number": "+41 79 000 11 22", "partner_class_code": "I", "partner_open_date": "2019-06-01", "partner_close_date": ""},
			{"partner_id": "p_2", "partner_name": "Bob Keller", "partner_phone_number": "+41 79 333 44 55", "partner_class_code": "I", "partner_open_date": "2021-02-15", "partner_close_date": ""},
			{"partner_id": "p_3", "partner_name": "Alina Brunner", "partner_phone_number": "+41 78 111 22 33", "partner_class_code": "P", "partner_open_date": "2022-09-30", "partner_close_date": ""},
			{"partner_id": "muster", "partner_name": "Muster Treuhand", "partner_phone_number": "+41 44 000 00 00", "partner_class_code": "C", "partner_open_date": "2015-01-01", "partner_close_date": ""},
			{"partner_id": "p_4", "partner_name": "Max Muster", "partner_phone_number": "+41 79 100 00 01", "partner_class_code": "I", "partner_open_date": "2018-03-03", "partner_close_date": ""},
			{"partner_id": "p_5", "partner_name": "Mia Muster", "partner_phone_number": "+41 79 100 00 02", "partner_class_code": "I", "partner_open_date": "2018-03-04", "partner_close_date": ""},
			{"partner_id": "p_6", "partner_name": "Moritz Muster", "partner_phone_number": "+41 79 100 00 03", "partner_class_code": "I", "partner_open_date": "2018-03-05", "partner_close_date": ""},
			{"partner_id": "p_7", "partner_name": "Muster AG", "partner_phone_number": "+41 44 100 00 04", "partner_class_code": "C", "partner_open_date": "2018-03-06", "partner_close_date": ""},
			{"partner_id": "p_8", "partner_name": "Muster GmbH", "partner_phone_number": "+41 44 100 00 05", "partner_class_code": "C", "partner_open_date": "2018-03-07", "partner_close_date": ""},
		},
		TablePartyRole: {
			{"partner_id": "p_1", "entity_type": "BR", "entity_id": "br_1", "relationship_end_date": ""},
			{"partner_id": "p_1", "entity_type": "ACC", "entity_id": "x_1", "relationship_end_date": ""},
			{"partner_id": "p_2", "entity_type": "BR", "entity_id": "br_2", "relationship_end_date": "2026-12-31"},
		},
		TableAccountLink: {
			{"br_id": "br_1", "account_id": "a_1", "status_code": "1"},
			{"br_id": "br_2", "account_id": "a_2", "status_code": "0"},
			{"br_id": "br_9", "account_id": "a_9", "status_code": "1"},
		},
		TableAccount: {
			{"account_id": "a_1", "account_currency": "CHF"},
			{"account_id": "a_2", "account_currency": "EUR"},
			{"account_id": "a_9", "account_currency": "USD"},
		},
		TableTransaction: {
			{"Account ID": "a_1", "Date": "2025-01-05 10:00", "Debit/Credit": "Debit", "Amount": "10.00", "Currency": "CHF", "Transfer_Type": "ebanking"},
			{"Account ID": "a_1", "Date": "2025-02-10 09:30", "Debit/Credit": "Debit", "Amount": "20.00", "Currency": "CHF", "Transfer_Type": "standing_order"},
			{"Account ID": "a_2", "Date": "2025-03-01 12:00", "Debit/Credit": "Credit", "Amount": "99.99", "Currency": "EUR", "Transfer_Type": "transfer"},
			{"Account ID": "a_2", "Date": "2025-03-02 08:00", "Debit/Credit": "debit", "Amount": "abc", "Currency": "EUR", "Transfer_Type": ""},
			{"Account ID": "a_2", "Date": "not-a-date", "Debit/Credit": "DEBIT", "Amount": "15.50", "Currency": "EUR", "Transfer_Type": "card"},
			{"Account ID": "a_2", "Date": "2025-03-04 23:59", "Debit/Credit": "Debit", "Amount": "5.00", "Currency": "USD", "Transfer_Type": "card"},
		},
		TableCountry: {
			{"partner_id": "p_1", "country_name": "Switzerland", "country_type": "domicile", "partner_country_status_code": "1"},
			{"partner_id": "p_1", "country_name": "Germany", "country_type": "domicile", "partner_country_status_code": "1"},
			{"partner_id": "p_2", "country_name": "France", "country_type": "domicile", "partner_country_status_code": "0"},
			{"partner_id": "p_2", "country_name": "Italy", "country_type": "nationality", "partner_country_status_code": "1"},
		},
	}}

	store := tables.NewStore(source)
	return New(store, logger.NewWithWriter(io.Discard))
}

func TestEngine_Idempotence(t *testing.T) {
	eng := fixtureEngine(t)
	ctx := context.Background()

	type call func() (interface{}, error)
	calls := map[string]call{
		"resolve": func() (interface{}, error) { return eng.ResolveCustomer(ctx, "muster") },
		"profile": func() (interface{}, error) { return eng.GetCustomerProfile(ctx, "p_2") },
		"list": func() (interface{}, error) {
			return eng.ListTransactions(ctx, "p_2", "", "", "")
		},
		"spend": func() (interface{}, error) {
			return eng.SummarizeCustomerSpend(ctx, "p_2", "", "", "month")
		},
	}

	for name, fn := range calls {
		t.Run(name, func(t *testing.T) {
			first, err := fn()
			require.NoError(t, err)
			second, err := fn()
			require.NoError(t, err)

			a, err := json.Marshal(first)
			require.NoError(t, err)
			b, err := json.Marshal(second)
			require.NoError(t, err)
			assert.Equal(t, string(a), string(b), "repeated calls must yield byte-identical output")
		})
	}
}

func TestEngine_MissingTablePropagates(t *testing.T) {
	source := &memSource{tables: map[string][]tables.Row{}}
	eng := New(tables.NewStore(source), logger.NewWithWriter(io.Discard))

	_, err := eng.GetCustomerProfile(context.Background(), "p_1")
	require.Error(t, err)

	var dsErr *tables.DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, TableParty, dsErr.Table)
}
