// Package config resolves the process-wide settings of a provisioning run.
//
// Settings are read once at invocation start into a [Config] that is passed
// down explicitly; deeper components never read the environment themselves.
// The cluster domain and region come from DOMAIN and REGION (or the matching
// CLI flags), credentials from the default AWS chain, and timeouts from
// SEARCHPROV_TIMEOUT_* variables.
//
// Request lists for the CLI are loaded with [LoadRequests] from YAML or JSON
// files, locally or from S3.
package config
