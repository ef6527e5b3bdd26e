// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (name.go, entry.go, sheet.go, errors.go) hold the waitlist
// types, name normalization and the sheet store contract. No adapter code lives here;
// the interfaces are consumed by the app layer and implemented under internal/adapter.
package domain
