// Package main is the entry point for the r6metrics CLI tool, which parses
// r6-dissect match exports and computes per-player performance metrics.
package main

import "github.com/pable/go-r6-metrics/cmd"

func main() {
	cmd.Execute()
}
