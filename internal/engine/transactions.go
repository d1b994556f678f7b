package engine

import (
	"context"
	"sort"
	"strconv"

	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
)

// defaultListLimit is used when the caller supplies no limit or one
// that does not coerce to an integer.
const defaultListLimit = 50

// TransactionList is the payload of ListTransactions. Transactions
// are the raw source rows.
type TransactionList struct {
	CustomerID   string       `json:"customer_id"`
	Transactions []tables.Row `json:"transactions"`
}

// ListTransactions returns the customer's transactions with a
// parseable timestamp, optionally bounded by an inclusive datetime
// range, newest first, truncated to the limit. Rows whose timestamp
// does not parse cannot be ordered or range-filtered and are dropped.
// Unparseable range bounds behave as absent bounds; an uncoercible
// limit falls back to the default.
func (e *Engine) ListTransactions(ctx context.Context, customerID, startDatetime, endDatetime, limit string) (*TransactionList, error) {
	n := defaultListLimit
	if limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			n = parsed
		}
	}

	start := parseTimestamp(startDatetime)
	end := parseTimestamp(endDatetime)

	txs, err := e.customerTransactions(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var kept []Transaction
	for _, tx := range txs {
		if tx.Timestamp == nil {
			continue
		}
		if start != nil && tx.Timestamp.Before(*start) {
			continue
		}
		if end != nil && tx.Timestamp.After(*end) {
			continue
		}
		kept = append(kept, tx)
	}

	// Newest first; stable so equal timestamps keep table order.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Timestamp.After(*kept[j].Timestamp)
	})

	if n < 0 {
		n = 0
	}
	if n > len(kept) {
		n = len(kept)
	}

	rows := make([]tables.Row, 0, n)
	for _, tx := range kept[:n] {
		rows = append(rows, tx.Raw)
	}

	return &TransactionList{
		CustomerID:   customerID,
		Transactions: rows,
	}, nil
}
