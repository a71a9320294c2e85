// Package lecture defines the replica data model shared by every other
// package: lectures, answer records, question tallies and content, the
// subscription tree, the typed settings configuration, and the error
// taxonomy used across the engine, session manager and sync protocol.
//
// The JSON shapes here are the wire contract with the server and the
// storage format of the replica store, so field names are fixed. Types
// in this package carry no behaviour beyond parsing and small pure
// accessors; all mutation happens in the owning components.
package lecture
