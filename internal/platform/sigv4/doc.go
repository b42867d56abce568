// Package sigv4 signs cluster requests with AWS Signature Version 4.
//
// The signer never touches caller-owned requests: it signs a private clone
// and hands back only the headers the signature added, for the caller to merge.
package sigv4
