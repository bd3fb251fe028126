// Package strategymap loads the strategy map, the declarative resource that
// names every detection strategy, the code that implements it, its traffic
// filters and parameters, and the ordered runs it executes.
//
// Load validates the whole resource and either returns a fully valid,
// immutable Registry or fails with a configuration error listing every
// problem found. A Registry is safe for concurrent use without locking.
// Holder keeps the current Registry behind an atomic pointer so a reload
// swaps the whole registry at once.
package strategymap
