// Package tasks orchestrates playlist conversion with real-time progress reporting.
//
// # Core Operation
//
// The [Engine] interface defines one operation:
//
//  1. [Engine.Convert] : Full playlist → local audio collection run
//     - Builds search queries per entry, including per-entry variant lists
//     - Resolves a download target via the two-tier evaluator
//     - Invokes the provider download with the persistent archive file
//     - Tags each produced file and records entries that yielded nothing
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Variant Fallback
//
// Each entry is tried once per search variant, in order. A download failure
// moves to the next variant; an age-restriction failure is permanent for the
// entry and aborts the remaining variants immediately.
//
// # Implementation
//
// [ConvertEngine] implements [Engine] with dependencies on:
//   - [provider.Provider] : search, metadata and download invocations
//   - [match.QueryBuilder] and [match.Evaluator] : query and acceptance logic
//   - [Tagger] : per-file metadata writes (tagging.Writer)
package tasks
