// Package request defines the administrative request descriptors consumed by
// the provisioning executor and turns them into concrete HTTP payloads.
//
// A [Descriptor] is one operation against the search cluster's management API.
// [Encode] resolves its body (JSON, verbatim string, or multipart file upload),
// the content headers, the optional security tenant header and the Kibana
// path rewrite. Encoding is deterministic: the same descriptor always yields
// the same bytes and headers.
package request
