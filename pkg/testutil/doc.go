// Package testutil provides fixtures for covertmark tests: strategy map
// builders, temporary map files and log capture.
//
// Builders emit JSON with strategies in the order they were added, so tests
// can rely on insertion order just as the loader does.
package testutil
