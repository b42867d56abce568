// Package testing provides fakes and builders shared by unit, handler and
// e2e tests:
//   - FakeDomain: an httptest server standing in for the search domain
//   - ConfigBuilder: fluent builder for config.Config values
//
// Usage:
//
//	domain := testing.NewFakeDomain(testing.WithPathStatus("/_template/t", 403))
//	defer domain.Close()
//
//	cfg := testing.NewConfigBuilder().
//	    WithDomainURL(domain.URL).
//	    Build()
package testing
