// Package main provides the entry point for the SignalWatch CLI.
//
// SignalWatch maps director networks in the UK Companies House registry.
// Starting from seed companies, it follows shared directors to discover
// connected companies and reports on the resulting network.
//
// Usage:
//
//	signalwatch scan <company-number>
//	signalwatch scan --list <file>
//
// See --help for all available options.
package main

// main is the entry point for SignalWatch.
func main() {
	Execute()
}
