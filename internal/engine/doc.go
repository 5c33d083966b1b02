// Package engine applies a scanner to batches of code units. It fans units
// out to a bounded worker group, memoises per-text findings, and walks local
// ABAP source trees into units for the CLI. This package is internal;
// external consumers should use the stable facade in pkg/core.
package engine
