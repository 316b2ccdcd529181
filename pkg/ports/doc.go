/*
Package ports defines the driven ports (interfaces) of the flow engine.

These interfaces decouple the core traversal logic from external
implementations, so the engine works with any flow source, session store or
completion delivery mechanism.

# Key Interfaces

  - FlowSource: loads validated flow definitions (file, memory).
  - StateStore: persists and loads per-session traversal State.
  - DistributedLocker: coordinates session access across replicas.
  - CompletionSink: receives the {answers, forms} result of a finished flow.
*/
package ports
