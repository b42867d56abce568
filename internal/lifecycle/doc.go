// Package lifecycle adapts the provisioning executor to CloudFormation
// custom resource invocations.
//
// Only Create and Update events run the request list; every other event is
// acknowledged without touching the cluster. The outcome is reported exactly
// once, either as an HTTP callback to the event's ResponseURL or as the
// handler's return value when no callback address is present.
package lifecycle
