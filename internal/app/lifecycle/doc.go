// Package lifecycle implements the book lifecycle state machine: the rules
// governing how a book moves between availability states via its waitlist of
// borrow requests, approval, handover and receipt confirmation.
//
// Every function in this package is pure: it takes the current Book aggregate
// and returns the next aggregate (or a guard error) without touching storage.
// The repository layer is responsible for the surrounding read-modify-write
// round trip, so a transition is always a single whole-document write.
package lifecycle
