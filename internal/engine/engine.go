// Package engine answers customer-centric analytic queries over the
// flat banking datasets: identity resolution, profile aggregation,
// transaction listing and spend summarization. All operations are
// read-only and tolerant of malformed rows; the only hard failure is
// a table that cannot be loaded at all.
package engine

import (
	"sync"

	"github.com/TuanDangNguyen2003/UBS-Oracle-Lauzhack2025/internal/tables"
	"github.com/rs/zerolog"
)

// Engine holds the table store and the memoized typed views of each
// table. It is safe for concurrent use.
type Engine struct {
	store *tables.Store
	log   zerolog.Logger

	mu                 sync.Mutex
	partyRecords       []Party
	roleRecords        []PartyRole
	linkRecords        []AccountLink
	accountRecords     []Account
	transactionRecords []Transaction
	countryRecords     []CountryAssociation
}

// New creates an engine over the given store.
func New(store *tables.Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log,
	}
}
