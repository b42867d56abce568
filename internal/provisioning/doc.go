// Package provisioning runs an ordered list of administrative requests
// against the search cluster.
//
// [Executor.Run] encodes, signs and dispatches each descriptor strictly in
// list order and stops at the first failure. Later descriptors usually depend
// on earlier ones (a tenant must exist before a role mapping references it),
// so nothing after a failed step is attempted. Steps that already succeeded
// are not rolled back and nothing is retried; the single [Outcome] tells the
// caller whether the whole list was applied.
package provisioning
