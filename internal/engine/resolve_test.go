package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCustomer_ExactID(t *testing.T) {
	eng := fixtureEngine(t)

	result, err := eng.ResolveCustomer(context.Background(), "p_1")
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	m := result.Matches[0]
	assert.Equal(t, "p_1", m.CustomerID)
	assert.Equal(t, "p_1", m.PartnerID)
	assert.Equal(t, "Alice Meier", m.PartnerName)
	assert.Equal(t, 1.0, m.Score)
}

func TestResolveCustomer_ExactPrecedesFuzzy(t *testing.T) {
	eng := fixtureEngine(t)

	result, err := eng.ResolveCustomer(context.Background(), "muster")
	require.NoError(t, err)

	// Cap at 5: one exact, then fuzzy name matches in table row order.
	require.Len(t, result.Matches, 5)
	assert.Equal(t, "muster", result.Matches[0].PartnerID)
	assert.Equal(t, 1.0, result.Matches[0].Score)

	wantOrder := []string{"p_4", "p_5", "p_6", "p_7"}
	for i, id := range wantOrder {
		assert.Equal(t, id, result.Matches[i+1].PartnerID)
		assert.Equal(t, 0.7, result.Matches[i+1].Score)
	}
}

func TestResolveCustomer_NameCaseFolded(t *testing.T) {
	eng := fixtureEngine(t)

	result, err := eng.ResolveCustomer(context.Background(), "ALICE")
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "p_1", result.Matches[0].PartnerID)
	assert.Equal(t, 0.7, result.Matches[0].Score)
}

func TestResolveCustomer_PhoneFragment(t *testing.T) {
	eng := fixtureEngine(t)

	// Stored as "+41 79 000 11 22"; whitespace is removed for comparison.
	result, err := eng.ResolveCustomer(context.Background(), "790001122")
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "p_1", result.Matches[0].PartnerID)
	assert.Equal(t, 0.7, result.Matches[0].Score)
}

func TestResolveCustomer_QueryTrimmed(t *testing.T) {
	eng := fixtureEngine(t)

	result, err := eng.ResolveCustomer(context.Background(), "  alice  ")
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "p_1", result.Matches[0].PartnerID)
}

func TestResolveCustomer_NoMatches(t *testing.T) {
	eng := fixtureEngine(t)

	result, err := eng.ResolveCustomer(context.Background(), "zzz_nobody")
	require.NoError(t, err)

	assert.NotNil(t, result.Matches)
	assert.Empty(t, result.Matches)
}

func TestResolveCustomer_NeverMoreThanFive(t *testing.T) {
	eng := fixtureEngine(t)

	// "+41" appears in every fixture phone number.
	result, err := eng.ResolveCustomer(context.Background(), "+41")
	require.NoError(t, err)

	assert.Len(t, result.Matches, 5)
	for _, m := range result.Matches {
		assert.Equal(t, 0.7, m.Score)
	}
}
