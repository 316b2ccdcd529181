package flowdef_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/flowdef"
)

func loadTestFlow(t *testing.T) *domain.FlowDefinition {
	t.Helper()
	data, err := os.ReadFile("testdata/dvro.json")
	require.NoError(t, err)

	def, err := flowdef.Parse("dvro", data)
	require.NoError(t, err)
	return def
}

func TestParse_CanonicalShape(t *testing.T) {
	def := loadTestFlow(t)

	assert.Equal(t, "dvro", def.ID)
	assert.Equal(t, "welcome", def.Start)
	assert.Equal(t, []string{"en", "es"}, def.Locales)
	assert.Len(t, def.Nodes, 6)

	welcome, ok := def.Node("welcome")
	require.True(t, ok)
	assert.Equal(t, domain.NodeTypeInfo, welcome.Type)
	assert.Equal(t, "relationship", welcome.Next)

	relationship, ok := def.Node("relationship")
	require.True(t, ok)
	assert.Equal(t, domain.NodeTypeQuestion, relationship.Type)
	require.Len(t, relationship.Options, 2)
	assert.Equal(t, "domestic", relationship.Options[0].Value)
	assert.Contains(t, relationship.Options[0].Label["es"], "Cónyuge")

	children, ok := def.Node("children")
	require.True(t, ok)
	assert.Equal(t, []string{"FL-341"}, children.FormsMentioned)

	done, ok := def.Node("done")
	require.True(t, ok)
	assert.True(t, done.IsTerminal())

	assert.Equal(t, "Proof of Personal Service", def.FormName("DV-200"))
	assert.Equal(t, "XX-000", def.FormName("XX-000"), "unknown codes fall back to themselves")

	require.Len(t, def.Triggers, 5)
	assert.Equal(t, "non_domestic_packet", def.Triggers[0].Name)
	assert.Equal(t, domain.PredicateAlways, def.Triggers[4].When.Kind)
}

func TestParse_VariantShape(t *testing.T) {
	// "pages" for "nodes", "to" for "next", flat strings for localized text.
	data := []byte(`{
		"start": "p1",
		"locales": ["en"],
		"pages": {
			"p1": { "type": "info", "text": "hello", "to": "p2" },
			"p2": {
				"type": "question",
				"question": "pick one",
				"options": [
					{ "value": "a", "label": "A", "to": "p3" },
					{ "value": "b", "label": "B" }
				]
			},
			"p3": { "type": "end" }
		}
	}`)

	def, err := flowdef.Parse("variant", data)
	require.NoError(t, err)

	p1, ok := def.Node("p1")
	require.True(t, ok)
	assert.Equal(t, "p2", p1.Next)
	assert.Equal(t, "hello", p1.Body.Resolve("en", "en"))

	p2, ok := def.Node("p2")
	require.True(t, ok)
	assert.Equal(t, "pick one", p2.Question.Resolve("en", "en"))
	assert.Equal(t, "p3", p2.Options[0].Next)
	assert.Equal(t, "", p2.Options[1].Next, "absent next means the flow completes on that option")
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
start: a
locales: [en]
nodes:
  a:
    type: info
    body: { en: "hi" }
    next: b
  b:
    type: end
triggers:
  - name: base
    when: { kind: always }
    forms: [FL-100]
`)
	def, err := flowdef.ParseYAML("yaml-flow", data)
	require.NoError(t, err)
	assert.Equal(t, "a", def.Start)
	require.Len(t, def.Triggers, 1)
	assert.Equal(t, domain.PredicateAlways, def.Triggers[0].When.Kind)
}

func TestParse_TextResolveFallback(t *testing.T) {
	def := loadTestFlow(t)
	welcome, _ := def.Node("welcome")

	en := welcome.Body.Resolve("en", def.DefaultLocale())
	fr := welcome.Body.Resolve("fr", def.DefaultLocale())
	assert.Contains(t, en, "Restraining Order")
	assert.Equal(t, en, fr, "missing locale falls back to the default")
}

func TestParse_IDMismatchRejected(t *testing.T) {
	data := []byte(`{
		"start": "a",
		"nodes": { "a": { "id": "something-else", "type": "end" } }
	}`)
	_, err := flowdef.Parse("bad", data)

	var contentErr *domain.ContentError
	require.ErrorAs(t, err, &contentErr)
	assert.Equal(t, "a", contentErr.NodeID)
}

func TestParse_RejectsMalformedRules(t *testing.T) {
	data := []byte(`{
		"start": "a",
		"nodes": { "a": { "type": "end" } },
		"rules": "not-a-table"
	}`)
	_, err := flowdef.Parse("bad", data)
	assert.Error(t, err)
}
