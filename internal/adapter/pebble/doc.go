// Package pebblestore is a local, single-node sheet store on top of a Pebble
// key-value database. It serves offline development and the operator CLI when
// no Google spreadsheet is available.
//
// Each populated row is one key, "<sheet>/<row>", with the row number
// zero-padded so keys sort in row order. Blank rows are not stored.
package pebblestore
