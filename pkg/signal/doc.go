// Package signal populates decision events with the signal values their
// governing spec declares.
//
// # Population order
//
// For each declared signal, in declaration order:
//
//  1. scope-sourced signals are copied verbatim from the event's scope
//     record and timestamp-sourced signals from the event timestamp; both
//     are always authoritative
//  2. context-sourced signals already supplied by the caller are kept
//  3. still-empty context signals are filled by deterministic pattern
//     extraction over the caller's unstructured text; a deterministic
//     result is final
//  4. signals that remain empty may be filled by an optional assisted
//     extractor, subject to the isolation rules below
//
// # Isolation
//
// The assisted extractor only ever sees context-sourced signals that are
// still unpopulated. It can never overwrite an existing value, its results
// are discarded below the configured confidence threshold, and values that
// fail type validation are dropped. Extractor errors and timeouts are
// logged and absorbed; population never fails because assistance failed.
//
// The raw unstructured text is never attached to the returned event. The
// input event is never mutated; Populate returns an enriched copy.
package signal
