package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/dsl"
	"github.com/kioskflow/kioskflow/pkg/runner"
)

func TestBuilder_BuildsValidFlow(t *testing.T) {
	b := dsl.New("dvro").Locales("en", "es")

	b.Info("welcome").
		Body("Welcome to the self-help kiosk.").
		BodyLocale("es", "Bienvenido.").
		To("relationship")

	b.Question("relationship").
		Prompt("What is your relationship to the other person?").
		Option("domestic", "Spouse or partner", "done").
		OptionLabel("es", "Cónyuge o pareja").
		Option("non_domestic", "Someone else", "done")

	b.End("done").
		Body("You are all set.").
		Mention("DV-200")

	b.Catalog("DV-100", "Request for Domestic Violence Restraining Order")
	b.Trigger("domestic_packet",
		domain.Predicate{Kind: domain.PredicateEquals, Field: "relationship", Value: "domestic"},
		"DV-100")
	b.Trigger("always_add_proof",
		domain.Predicate{Kind: domain.PredicateAlways}, "DV-200")

	flow, err := b.Build()
	require.NoError(t, err)

	// The first node added is the start
	assert.Equal(t, "welcome", flow.Start)
	assert.Equal(t, "Bienvenido.", flow.Nodes["welcome"].Body.Resolve("es", "en"))
	assert.Equal(t, "Cónyuge o pareja", flow.Nodes["relationship"].Options[0].Label.Resolve("es", "en"))
	assert.Len(t, flow.Triggers, 2)
}

func TestBuilder_FlowIsRunnable(t *testing.T) {
	b := dsl.New("mini")
	b.Question("pick").
		Prompt("Continue?").
		Option("yes", "Yes", "")
	b.Trigger("always", domain.Predicate{Kind: domain.PredicateAlways}, "FORM-1")

	flow, err := b.Build()
	require.NoError(t, err)

	r, err := runner.New(flow)
	require.NoError(t, err)

	state, err := r.Start("en")
	require.NoError(t, err)
	state, err = r.SelectOption(context.Background(), state, "yes")
	require.NoError(t, err)

	assert.True(t, state.Completed)
	assert.Equal(t, []string{"FORM-1"}, state.Forms)
}

func TestBuilder_DanglingEdgeFailsValidation(t *testing.T) {
	b := dsl.New("broken")
	b.Info("welcome").To("missing")

	_, err := b.Build()
	require.Error(t, err)

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBuilder_ExplicitStartOverride(t *testing.T) {
	b := dsl.New("two").Start("second")
	b.End("first")
	b.End("second")

	flow, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "second", flow.Start)
}
