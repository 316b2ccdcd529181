package tui

import (
	"fmt"
	"strings"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

// PageMarkdown formats a flow node as markdown for terminal rendering.
func PageMarkdown(node *domain.Node, locale, fallback string) string {
	var sb strings.Builder

	if body := node.Body.Resolve(locale, fallback); body != "" {
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}

	if node.Type == domain.NodeTypeQuestion {
		if q := node.Question.Resolve(locale, fallback); q != "" {
			sb.WriteString("## " + q + "\n\n")
		}
		for i, opt := range node.Options {
			label := opt.Label.Resolve(locale, fallback)
			if label == "" {
				label = opt.Value
			}
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, label))
		}
	}

	if len(node.FormsMentioned) > 0 {
		sb.WriteString("\n*Forms mentioned on this page:*\n")
		for _, code := range node.FormsMentioned {
			sb.WriteString("- `" + code + "`\n")
		}
	}

	return sb.String()
}

// SummaryMarkdown formats a completed session's recommended forms, with
// catalog names when the flow has them.
func SummaryMarkdown(def *domain.FlowDefinition, forms []string) string {
	var sb strings.Builder
	sb.WriteString("# Recommended forms\n\n")
	if len(forms) == 0 {
		sb.WriteString("No forms were recommended for your answers.\n")
		return sb.String()
	}
	for _, code := range forms {
		sb.WriteString(fmt.Sprintf("- **%s** %s\n", code, def.FormName(code)))
	}
	return sb.String()
}
