// Package typesys resolves event type declarations into an immutable
// hierarchy.
//
// Every event type carries an explicit parent reference resolved once, at
// registration, into a precomputed root-to-leaf chain. Nothing here depends
// on runtime type metadata: the ordering algorithm in package frame works
// over this data alone.
//
// A Registry is immutable after Resolve returns and is safe for concurrent
// use.
package typesys
