package engine

import (
	"context"
)

// The key-expansion chain below is the shared backbone of every
// query: partner -> business relationships -> account IDs ->
// accounts / transactions. Each hop produces a de-duplicated key set;
// empty inputs short-circuit without scanning.

// partnerBRs returns the business relationship IDs the partner
// participates in (roles of entity type BR only).
func (e *Engine) partnerBRs(ctx context.Context, partnerID string) (map[string]struct{}, error) {
	roles, err := e.roles(ctx)
	if err != nil {
		return nil, err
	}

	brIDs := make(map[string]struct{})
	for _, role := range roles {
		if role.PartnerID != partnerID {
			continue
		}
		if role.EntityType != entityTypeBR {
			continue
		}
		brIDs[role.EntityID] = struct{}{}
	}
	return brIDs, nil
}

// brAccountIDs returns the account IDs linked to any of the given
// business relationships. Link status is deliberately ignored: every
// link counts, active or not.
func (e *Engine) brAccountIDs(ctx context.Context, brIDs map[string]struct{}) (map[string]struct{}, error) {
	if len(brIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	links, err := e.links(ctx)
	if err != nil {
		return nil, err
	}

	accountIDs := make(map[string]struct{})
	for _, link := range links {
		if _, ok := brIDs[link.BRID]; ok {
			accountIDs[link.AccountID] = struct{}{}
		}
	}
	return accountIDs, nil
}

// accountsByID returns the account records for the given IDs, in
// table order.
func (e *Engine) accountsByID(ctx context.Context, accountIDs map[string]struct{}) ([]Account, error) {
	if len(accountIDs) == 0 {
		return []Account{}, nil
	}

	accounts, err := e.accounts(ctx)
	if err != nil {
		return nil, err
	}

	var result []Account
	for _, a := range accounts {
		if _, ok := accountIDs[a.ID]; ok {
			result = append(result, a)
		}
	}
	return result, nil
}

// transactionsForAccounts returns the transactions referencing any of
// the given accounts, in table order.
func (e *Engine) transactionsForAccounts(ctx context.Context, accountIDs map[string]struct{}) ([]Transaction, error) {
	if len(accountIDs) == 0 {
		return []Transaction{}, nil
	}

	txs, err := e.transactions(ctx)
	if err != nil {
		return nil, err
	}

	var result []Transaction
	for _, tx := range txs {
		if _, ok := accountIDs[tx.AccountID]; ok {
			result = append(result, tx)
		}
	}
	return result, nil
}

// customerAccountIDs runs the first two hops of the chain for a
// partner.
func (e *Engine) customerAccountIDs(ctx context.Context, partnerID string) (map[string]struct{}, error) {
	brIDs, err := e.partnerBRs(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return e.brAccountIDs(ctx, brIDs)
}

// customerTransactions runs the full chain down to the partner's
// transaction set.
func (e *Engine) customerTransactions(ctx context.Context, partnerID string) ([]Transaction, error) {
	accountIDs, err := e.customerAccountIDs(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return e.transactionsForAccounts(ctx, accountIDs)
}
