/*
Package dsl provides a fluent Go builder for constructing flow definitions
programmatically.

It lets developers define questionnaire flows with type-safe Go code instead
of external JSON or YAML documents. This is particularly useful for dynamic
flow generation, unit testing, and leveraging IDE autocompletion.

Example usage:

	package main

	import (
		"github.com/kioskflow/kioskflow/pkg/dsl"
		"github.com/kioskflow/kioskflow/pkg/domain"
	)

	func main() {
		b := dsl.New("dvro").Locales("en")

		b.Info("welcome").
			Body("Welcome to the self-help kiosk.").
			To("relationship")

		b.Question("relationship").
			Prompt("What is your relationship to the other person?").
			Option("domestic", "Spouse or partner", "done").
			Option("non_domestic", "Someone else", "done")

		b.End("done").
			Body("You are all set.")

		b.Trigger("always_add_proof",
			domain.Predicate{Kind: domain.PredicateAlways}, "DV-200")

		flow, err := b.Build()
		// flow is validated and ready for a runner or a memory source.
		_ = flow
		_ = err
	}
*/
package dsl
