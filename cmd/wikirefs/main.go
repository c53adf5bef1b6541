// Package main provides the entry point for the wikirefs CLI.
//
// wikirefs searches Wikipedia for pages related to a term and saves the
// external reference links of each page to a local text file. Pages can
// be processed sequentially, in a pool of goroutines, or in separate
// worker processes.
//
// Usage:
//
//	wikirefs fetch <search-term>
//	wikirefs fetch --mode threads --workers 8 <search-term>
//
// See --help for all available options.
package main

// main is the entry point for wikirefs.
func main() {
	Execute()
}
