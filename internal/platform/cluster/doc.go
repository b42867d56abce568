// Package cluster sends signed administrative requests to the search cluster.
//
// A [Client] performs exactly one HTTP exchange per call: no retries and no
// implicit redirects. Response bodies are read to completion before
// returning.
package cluster
