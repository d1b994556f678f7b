package engine

import (
	"context"
	"strings"
)

// maxMatches caps the number of matches a resolve returns.
const maxMatches = 5

// Match scores for the two resolution phases.
const (
	scoreExact = 1.0
	scoreFuzzy = 0.7
)

// CustomerMatch is one candidate identity for a free-text query.
type CustomerMatch struct {
	CustomerID         string  `json:"customer_id"`
	PartnerID          string  `json:"partner_id"`
	PartnerName        string  `json:"partner_name"`
	PartnerPhoneNumber string  `json:"partner_phone_number"`
	Score              float64 `json:"score"`
}

// ResolveResult is the payload of ResolveCustomer.
type ResolveResult struct {
	Matches []CustomerMatch `json:"matches"`
}

// ResolveCustomer maps a free-text query (partner ID, name fragment
// or phone fragment) to at most five matching parties. Exact ID
// matches score 1.0 and always precede fuzzy matches, which score 0.7
// and follow table row order. No matches is a normal outcome.
func (e *Engine) ResolveCustomer(ctx context.Context, query string) (*ResolveResult, error) {
	parties, err := e.parties(ctx)
	if err != nil {
		return nil, err
	}

	matches := []CustomerMatch{}

	// Exact partner ID matches first, verbatim and case-sensitive.
	for _, p := range parties {
		if p.ID != query {
			continue
		}
		matches = append(matches, CustomerMatch{
			CustomerID:         p.ID,
			PartnerID:          p.ID,
			PartnerName:        p.Name,
			PartnerPhoneNumber: p.Phone,
			Score:              scoreExact,
		})
		if len(matches) >= maxMatches {
			return &ResolveResult{Matches: matches}, nil
		}
	}

	// Then substring matches on case-folded name or phone, in table
	// row order, skipping parties that already matched exactly.
	q := strings.ToLower(strings.TrimSpace(query))
	for _, p := range parties {
		if matchedAlready(matches, p.ID) {
			continue
		}

		name := strings.ToLower(p.Name)
		phone := strings.ToLower(stripSpaces(p.Phone))

		if strings.Contains(name, q) || strings.Contains(phone, q) {
			matches = append(matches, CustomerMatch{
				CustomerID:         p.ID,
				PartnerID:          p.ID,
				PartnerName:        p.Name,
				PartnerPhoneNumber: p.Phone,
				Score:              scoreFuzzy,
			})
		}

		if len(matches) >= maxMatches {
			break
		}
	}

	return &ResolveResult{Matches: matches}, nil
}

func matchedAlready(matches []CustomerMatch, partnerID string) bool {
	for _, m := range matches {
		if m.PartnerID == partnerID {
			return true
		}
	}
	return false
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
