package rules

import (
	"fmt"
	"sort"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

// Answer fields the legacy rule table implies. The compact shape predates
// predicate descriptors: trigger names were fixed and their conditions lived
// in code. Expansion pins those conditions down as data.
const (
	legacyFieldRelationship = "relationship"
	legacyFieldChildren     = "children"
	legacyFieldSupport      = "support"

	legacyValueNonDomestic = "non_domestic"
	legacyValueYes         = "yes"
	legacyValueNone        = "none"
)

// Legacy trigger names accepted in the compact "rules" object.
const (
	LegacyNonDomesticPacket = "non_domestic_packet"
	LegacyDomesticPacket    = "domestic_packet"
	LegacyAddIfChildren     = "add_if_children"
	LegacyAddIfSupport      = "add_if_support_requested"
	LegacyAlwaysAddProof    = "always_add_proof"
)

// legacyOrder fixes the evaluation order of expanded triggers: base packets
// first, conditional additions next, unconditional last. First-insertion
// dedup makes this order observable in the output.
var legacyOrder = map[string]int{
	LegacyNonDomesticPacket: 0,
	LegacyDomesticPacket:    1,
	LegacyAddIfChildren:     2,
	LegacyAddIfSupport:      3,
	LegacyAlwaysAddProof:    4,
}

// ExpandLegacy converts the compact named-list rule table into trigger
// descriptors. Unknown trigger names are a content error: silently dropping a
// rule would silently drop forms from recommendations.
func ExpandLegacy(table map[string][]string) ([]domain.Trigger, error) {
	names := make([]string, 0, len(table))
	for name := range table {
		if _, known := legacyOrder[name]; !known {
			return nil, &domain.ContentError{Field: "rules", Reason: fmt.Sprintf("unknown trigger name %q", name)}
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return legacyOrder[names[i]] < legacyOrder[names[j]] })

	triggers := make([]domain.Trigger, 0, len(names))
	for _, name := range names {
		triggers = append(triggers, domain.Trigger{
			Name:  name,
			When:  legacyPredicate(name),
			Forms: table[name],
		})
	}
	return triggers, nil
}

func legacyPredicate(name string) domain.Predicate {
	switch name {
	case LegacyNonDomesticPacket:
		return domain.Predicate{Kind: domain.PredicateEquals, Field: legacyFieldRelationship, Value: legacyValueNonDomestic}
	case LegacyDomesticPacket:
		// Matches when relationship is anything else or was never asked, so
		// the domestic packet is the default branch.
		return domain.Predicate{Kind: domain.PredicateNotEquals, Field: legacyFieldRelationship, Value: legacyValueNonDomestic}
	case LegacyAddIfChildren:
		return domain.Predicate{Kind: domain.PredicateEquals, Field: legacyFieldChildren, Value: legacyValueYes}
	case LegacyAddIfSupport:
		return domain.Predicate{Kind: domain.PredicateAnsweredNot, Field: legacyFieldSupport, Value: legacyValueNone}
	case LegacyAlwaysAddProof:
		return domain.Predicate{Kind: domain.PredicateAlways}
	}
	return domain.Predicate{Kind: domain.PredicateAlways}
}
