// Package store holds the application state and applies actions to it.
//
// A [Store] owns one goroutine that applies actions in the order they are dispatched.
// Reducers are pure and copy-on-write: [Reduce] never mutates the maps or slices of the
// state it receives, so a snapshot returned by [Store.State] stays valid after later commits.
//
// Readers never lock. Each commit publishes a new snapshot through an atomic pointer, and
// listeners registered with [Store.Subscribe] run on the owner goroutine after the commit.
package store
