// Package cli implements the quizclient command line interface: cobra
// commands over the session, sync and garbage-collection engines, with
// text or JSON output and exit codes that distinguish operation
// failures from command errors.
package cli
