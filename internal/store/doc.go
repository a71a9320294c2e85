// Package store provides the durable key-value replica the quiz client
// works from.
//
// Every stored object is a JSON document keyed by its URI: lectures
// under their lecture URI, questions under their question URI, plus the
// two well-known keys "_subscriptions" (the tutorial tree) and
// "client_id" (this installation's identity). The engine and syncer
// only ever read and write whole documents, so the interface is a flat
// Get/Set/Remove/ListKeys.
//
// Two implementations exist: a SQLite-backed store for real use and an
// in-memory store for tests. The SQLite store uses:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - a single connection, since SQLite allows one writer at a time
package store
