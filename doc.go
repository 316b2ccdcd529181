/*
Package kioskflow is a guided-questionnaire engine for self-help kiosks. It
walks visitors through a directed graph of informational and question pages,
records their answers, and recommends the court forms their situation calls
for.

It separates the flow content (Graph) from the per-visitor traversal
(Session) and from delivery side-effects (Sinks). The engine core is
embeddable in any interface: the bundled HTTP server, the interactive
terminal preview, or your own host.

# Concept

A flow is a JSON or YAML document describing pages and the labeled edges
between them. The engine validates the document at load, walks it one step
at a time, and evaluates an ordered rule table against the collected answers
when the visitor reaches the end. Given the same answers, the recommended
form list is always reproducible.

# Key Features

  - Deterministic traversal: answers and history fully determine the outcome.
  - Hexagonal layout: stores, sources and sinks are ports with in-memory,
    filesystem and Redis adapters.
  - Session persistence: sessions survive restarts when backed by Redis, with
    optional distributed locking for multi-instance deployments.
  - Localized content: every page resolves its text per session locale with
    fallback to the flow's default.

# Usage

Initialize the engine with a flows directory, or inject a custom source.

	package main

	import (
		"context"
		"log"

		"github.com/kioskflow/kioskflow"
	)

	func main() {
		eng, err := kioskflow.New("./flows")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state, err := eng.StartSession(ctx, "dvro", "en")
		if err != nil {
			log.Fatal(err)
		}

		// Walk: Continue past info pages, Answer question pages.
		state, err = eng.Continue(ctx, state.SessionID)
		if err != nil {
			log.Fatal(err)
		}
		state, err = eng.Answer(ctx, state.SessionID, "domestic")
		if err != nil {
			log.Fatal(err)
		}

		if state.Completed {
			log.Println("Recommended forms:", state.Forms)
		}
	}
*/
package kioskflow
