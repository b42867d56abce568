// Package s3 reads provisioning assets (request lists, dashboards) from
// Amazon S3 so the CLI can apply lists kept next to the deployment artifacts.
package s3
