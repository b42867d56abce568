// Package logging builds the logr.Logger shared by the Lambda handler and
// the CLI. Output is JSON unless the destination is a terminal.
package logging
