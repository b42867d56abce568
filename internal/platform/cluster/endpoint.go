package cluster

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoint is the scheme and host of the cluster's management API.
type Endpoint struct {
	Scheme string
	Host   string
}

// ParseEndpoint parses a domain endpoint. A bare host name means https.
func ParseEndpoint(domain string) (Endpoint, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return Endpoint{}, fmt.Errorf("empty cluster endpoint")
	}
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}

	u, err := url.Parse(domain)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid cluster endpoint %q: %w", domain, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Endpoint{}, fmt.Errorf("invalid cluster endpoint %q: unsupported scheme %q", domain, u.Scheme)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("invalid cluster endpoint %q: missing host", domain)
	}
	if u.Path != "" && u.Path != "/" {
		return Endpoint{}, fmt.Errorf("invalid cluster endpoint %q: must not contain a path", domain)
	}

	return Endpoint{Scheme: u.Scheme, Host: u.Host}, nil
}

// URL joins the endpoint with a host-relative path.
func (e Endpoint) URL(path string) string {
	return e.Scheme + "://" + e.Host + path
}

func (e Endpoint) String() string {
	return e.Scheme + "://" + e.Host
}
