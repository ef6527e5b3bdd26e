// Package memory provides an in-process sheet store for single-instance
// development and tests. Its read semantics mirror the Google Sheets values API:
// trailing blank rows and cells are not reported, interior blank rows are.
package memory
