// Package syncer reconciles the local replica with the tutor-web
// server.
//
// A lecture syncs by POSTing the client's full copy and merging the
// server's authoritative answer queue with whatever the student
// answered while the request was in flight; the merge itself is a pure
// function over three queue snapshots, so it is testable without any
// I/O. Subscription sync fans lecture syncs out in small concurrent
// batches and finishes with a garbage-collection pass over the replica.
//
// Nothing is written to the store until the server response has passed
// the user check, so a sync against the wrong account leaves the
// replica untouched.
package syncer
