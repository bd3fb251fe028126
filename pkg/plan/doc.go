// Package plan turns a strategy descriptor and caller input into concrete
// runs, and executes them in order.
//
// Build binds the caller's trace addresses to the descriptor's filter tags
// positionally, swapping source and destination roles for runs that ask for
// reversal. It coerces user parameters to their declared types and checks
// every run constraint. All problems are reported together.
//
// Execute hands each planned run to a Runner, one at a time, in run order.
package plan
