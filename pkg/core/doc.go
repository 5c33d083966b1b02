// Package core provides a small, stable facade over drcscan's internal engine
// for external integrations. It re-exports a narrow API surface so other
// tools can depend on a stable import path without reaching into internal
// packages.
//
// Example:
//
//	units, err := core.UnmarshalUnits(os.Stdin)
//	if err != nil { /* handle */ }
//	results, err := core.Detect(ctx, units)
//	if err != nil { /* handle */ }
//	_ = core.MarshalResults(os.Stdout, results)
package core
