// Package retry repeats an operation with exponential backoff until it
// succeeds, returns a [Fatal] error, or runs out of attempts.
//
// It is used for the CloudFormation response upload, where a dropped
// connection must not leave the stack waiting for its timeout.
package retry
