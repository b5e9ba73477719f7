// Package shutdown coordinates graceful process shutdown.
//
// Components register hooks; on SIGINT/SIGTERM (or a programmatic
// trigger) the hooks run in reverse registration order under a single
// deadline.
package shutdown
