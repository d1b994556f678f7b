package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Grouping modes for SummarizeCustomerSpend. Any other value groups
// all rows under one key.
const (
	GroupByDay          = "day"
	GroupByMonth        = "month"
	GroupByTransferType = "transfer_type"
)

const (
	groupKeyAll     = "ALL"
	groupKeyUnknown = "UNKNOWN"
	multiCurrency   = "MULTI"
)

// SpendGroup is one bucket of a spend summary.
type SpendGroup struct {
	Key              string  `json:"key"`
	TotalAmount      float64 `json:"total_amount"`
	TransactionCount int     `json:"transaction_count"`
}

// SpendSummary is the payload of SummarizeCustomerSpend.
type SpendSummary struct {
	CustomerID  string       `json:"customer_id"`
	TotalAmount float64      `json:"total_amount"`
	Currency    *string      `json:"currency"`
	PeriodStart *string      `json:"period_start"`
	PeriodEnd   *string      `json:"period_end"`
	GroupBy     string       `json:"group_by"`
	Groups      []SpendGroup `json:"groups"`
}

// SummarizeCustomerSpend aggregates the customer's debit
// transactions over an inclusive date-only range, grouped by the
// selected key. The currency label is the single code observed
// across kept rows, "MULTI" when several, null when none.
func (e *Engine) SummarizeCustomerSpend(ctx context.Context, customerID, startDate, endDate, groupBy string) (*SpendSummary, error) {
	start := parseDate(startDate)
	end := parseDate(endDate)

	mode := strings.ToLower(groupBy)
	if mode == "" {
		mode = "none"
	}

	txs, err := e.customerTransactions(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Spend is money leaving the customer's accounts: debits with a
	// parseable timestamp inside the range.
	var kept []Transaction
	currencies := make(map[string]struct{})
	for _, tx := range txs {
		if !tx.IsDebit() {
			continue
		}
		if tx.Timestamp == nil {
			continue
		}
		if start != nil && dateOf(*tx.Timestamp).Before(*start) {
			continue
		}
		if end != nil && dateOf(*tx.Timestamp).After(*end) {
			continue
		}
		kept = append(kept, tx)
		if tx.Currency != "" {
			currencies[tx.Currency] = struct{}{}
		}
	}

	total := decimal.Zero
	type bucket struct {
		total decimal.Decimal
		count int
	}
	buckets := make(map[string]*bucket)

	for _, tx := range kept {
		total = total.Add(tx.Amount)

		key := spendGroupKey(mode, tx)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.total = b.total.Add(tx.Amount)
		b.count++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]SpendGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, SpendGroup{
			Key:              k,
			TotalAmount:      roundMoney(buckets[k].total),
			TransactionCount: buckets[k].count,
		})
	}

	summary := &SpendSummary{
		CustomerID:  customerID,
		TotalAmount: roundMoney(total),
		GroupBy:     mode,
		Groups:      groups,
	}
	if len(currencies) == 1 {
		for c := range currencies {
			summary.Currency = &c
		}
	} else if len(currencies) > 1 {
		m := multiCurrency
		summary.Currency = &m
	}
	if startDate != "" {
		summary.PeriodStart = &startDate
	}
	if endDate != "" {
		summary.PeriodEnd = &endDate
	}

	return summary, nil
}

func spendGroupKey(mode string, tx Transaction) string {
	switch mode {
	case GroupByDay:
		return tx.Timestamp.Format(dateLayout)
	case GroupByMonth:
		return fmt.Sprintf("%04d-%02d", tx.Timestamp.Year(), int(tx.Timestamp.Month()))
	case GroupByTransferType:
		if tx.TransferType == "" {
			return groupKeyUnknown
		}
		return tx.TransferType
	default:
		return groupKeyAll
	}
}

// dateOf truncates a timestamp to its calendar date for date-only
// range comparison.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
