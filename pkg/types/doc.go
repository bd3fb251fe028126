// Package types defines the data model of the strategy map: strategy
// descriptors, their runs, the closed enumerations of filter tags and
// parameter type tags, and the parameter pairs carried by descriptors.
//
// Values in this package are plain data. Validation of a whole strategy map
// lives in pkg/strategymap; this package only knows how to parse and check
// individual tags and values.
package types
