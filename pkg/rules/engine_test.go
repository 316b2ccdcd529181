package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/rules"
)

// dvroTable mirrors the restraining-order rule table used by the sample flow.
func dvroTable(t *testing.T) *rules.Engine {
	t.Helper()
	triggers, err := rules.ExpandLegacy(map[string][]string{
		rules.LegacyNonDomesticPacket: {"CH-100", "CH-110"},
		rules.LegacyDomesticPacket:    {"DV-100", "CLETS-001", "DV-109", "DV-110"},
		rules.LegacyAddIfChildren:     {"FL-341"},
		rules.LegacyAddIfSupport:      {"FL-150"},
		rules.LegacyAlwaysAddProof:    {"DV-200"},
	})
	require.NoError(t, err)

	engine, err := rules.New(triggers)
	require.NoError(t, err)
	return engine
}

func TestRecommend_NonDomesticPacket(t *testing.T) {
	engine := dvroTable(t)

	forms := engine.Recommend(map[string]string{"relationship": "non_domestic"})

	assert.Contains(t, forms, "CH-100")
	assert.Contains(t, forms, "CH-110")
	assert.NotContains(t, forms, "DV-100")
}

func TestRecommend_DomesticPacket(t *testing.T) {
	engine := dvroTable(t)

	for name, answers := range map[string]map[string]string{
		"explicit": {"relationship": "domestic"},
		"unset":    {},
	} {
		t.Run(name, func(t *testing.T) {
			forms := engine.Recommend(answers)
			assert.Subset(t, forms, []string{"DV-100", "CLETS-001", "DV-109", "DV-110"})
			assert.NotContains(t, forms, "CH-100")
		})
	}
}

func TestRecommend_Children(t *testing.T) {
	engine := dvroTable(t)

	assert.Contains(t, engine.Recommend(map[string]string{"children": "yes"}), "FL-341")
	assert.NotContains(t, engine.Recommend(map[string]string{"children": "no"}), "FL-341")
}

func TestRecommend_SupportRequested(t *testing.T) {
	engine := dvroTable(t)

	assert.NotContains(t, engine.Recommend(map[string]string{"support": "none"}), "FL-150")
	assert.Contains(t, engine.Recommend(map[string]string{"support": "50"}), "FL-150")
	// Never asked: the conditional add must not fire.
	assert.NotContains(t, engine.Recommend(map[string]string{}), "FL-150")
}

func TestRecommend_ProofAlwaysIncluded(t *testing.T) {
	engine := dvroTable(t)

	// Terminal reached with zero questions answered still yields the
	// unconditional forms.
	assert.Contains(t, engine.Recommend(map[string]string{}), "DV-200")
}

func TestRecommend_Idempotent(t *testing.T) {
	engine := dvroTable(t)
	answers := map[string]string{"relationship": "domestic", "children": "yes", "support": "100"}

	first := engine.Recommend(answers)
	second := engine.Recommend(answers)

	assert.ElementsMatch(t, first, second)
}

func TestRecommend_DeduplicatesAcrossTriggers(t *testing.T) {
	engine, err := rules.New([]domain.Trigger{
		{Name: "a", When: domain.Predicate{Kind: domain.PredicateAlways}, Forms: []string{"DV-100", "DV-109"}},
		{Name: "b", When: domain.Predicate{Kind: domain.PredicateAlways}, Forms: []string{"DV-109", "DV-120"}},
	})
	require.NoError(t, err)

	forms := engine.Recommend(nil)

	assert.Equal(t, []string{"DV-100", "DV-109", "DV-120"}, forms, "first insertion wins, duplicates collapse")
}

func TestRecommend_OneOfMembership(t *testing.T) {
	engine, err := rules.New([]domain.Trigger{
		{
			Name:  "weapons",
			When:  domain.Predicate{Kind: domain.PredicateOneOf, Field: "weapons", Values: []string{"firearm", "other"}},
			Forms: []string{"DV-800"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, engine.Recommend(map[string]string{"weapons": "firearm"}), "DV-800")
	assert.Empty(t, engine.Recommend(map[string]string{"weapons": "none"}))
	assert.Empty(t, engine.Recommend(nil))
}

func TestRecommend_ExprPredicate(t *testing.T) {
	engine, err := rules.New([]domain.Trigger{
		{
			Name:  "children_support",
			When:  domain.Predicate{Kind: domain.PredicateExpr, Expr: `children == "yes" && support != "none"`},
			Forms: []string{"FL-342"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, engine.Recommend(map[string]string{"children": "yes", "support": "200"}), "FL-342")
	assert.Empty(t, engine.Recommend(map[string]string{"children": "yes", "support": "none"}))
}

func TestNew_RejectsBadExpression(t *testing.T) {
	_, err := rules.New([]domain.Trigger{
		{Name: "bad", When: domain.Predicate{Kind: domain.PredicateExpr, Expr: "this is (not valid"}},
	})

	var contentErr *domain.ContentError
	require.ErrorAs(t, err, &contentErr)
	assert.Equal(t, "rules.bad", contentErr.Field)
}

func TestNew_RejectsUnknownKind(t *testing.T) {
	_, err := rules.New([]domain.Trigger{
		{Name: "bad", When: domain.Predicate{Kind: "sometimes", Field: "x"}},
	})
	assert.Error(t, err)
}

func TestExpandLegacy_RejectsUnknownName(t *testing.T) {
	_, err := rules.ExpandLegacy(map[string][]string{"add_if_full_moon": {"DV-999"}})
	assert.Error(t, err)
}

func TestRecommend_BothBasePacketsUnionWhenBothMatch(t *testing.T) {
	// The engine does not enforce exclusivity between base packets; content
	// authoring owns that contract.
	engine, err := rules.New([]domain.Trigger{
		{Name: "a", When: domain.Predicate{Kind: domain.PredicateNotEquals, Field: "relationship", Value: "x"}, Forms: []string{"DV-100"}},
		{Name: "b", When: domain.Predicate{Kind: domain.PredicateNotEquals, Field: "relationship", Value: "y"}, Forms: []string{"CH-100"}},
	})
	require.NoError(t, err)

	forms := engine.Recommend(map[string]string{"relationship": "z"})
	assert.ElementsMatch(t, []string{"DV-100", "CH-100"}, forms)
}
