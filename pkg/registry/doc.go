// Package registry provides a generic, type-safe registry for named items.
// Items keep their registration order, so listings are stable and follow
// the order in which packages registered them from init() functions.
package registry
