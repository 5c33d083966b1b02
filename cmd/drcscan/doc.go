// Package drcscan provides the command-line interface for drcscan. It wires
// subcommands (serve, scan, watch, catalog, baseline, ...), parses flags and
// executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/drcscan/cmd/drcscan"
//	func main() { drcscan.Execute() }
package drcscan
