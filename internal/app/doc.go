// Package app provides the application service layer.
//
// Orchestrates the waitlist use cases: enqueue, mark used, check, clear and rebuild.
// Each use case connects to the sheet store once and runs the membership checker,
// the mutators and the queue rebuilder against that handle. Depends on domain
// interfaces, not concrete adapters.
package app
