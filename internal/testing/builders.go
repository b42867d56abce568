package testing

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/imamik/searchprov/internal/config"
	"github.com/imamik/searchprov/internal/platform/cluster"
)

// Test credentials. The session token is set so signed requests carry
// X-Amz-Security-Token.
const (
	AccessKeyID     = "AKIDEXAMPLE"
	SecretAccessKey = "secret"
	SessionToken    = "token"
)

// StaticCredentials returns a provider for the test credentials.
func StaticCredentials() aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(AccessKeyID, SecretAccessKey, SessionToken)
}

// ConfigBuilder provides a fluent API for building test configurations.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a builder with a complete default configuration.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Domain:      "search-test.eu-west-1.es.amazonaws.com",
			Region:      "eu-west-1",
			Endpoint:    cluster.Endpoint{Scheme: "https", Host: "search-test.eu-west-1.es.amazonaws.com"},
			Credentials: StaticCredentials(),
			Timeouts:    config.Timeouts{Request: 5 * time.Second, Callback: 5 * time.Second},
		},
	}
}

// WithDomainURL points the configuration at rawURL, typically a test
// server's URL. It panics on an invalid URL.
func (b *ConfigBuilder) WithDomainURL(rawURL string) *ConfigBuilder {
	ep, err := cluster.ParseEndpoint(rawURL)
	if err != nil {
		panic(fmt.Sprintf("invalid test domain %q: %v", rawURL, err))
	}
	b.cfg.Domain = rawURL
	b.cfg.Endpoint = ep
	return b
}

// WithRegion sets the signing region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	b.cfg.Region = region
	return b
}

// WithCredentials replaces the static test credentials.
func (b *ConfigBuilder) WithCredentials(p aws.CredentialsProvider) *ConfigBuilder {
	b.cfg.Credentials = p
	return b
}

// WithRequestTimeout sets the cluster request timeout.
func (b *ConfigBuilder) WithRequestTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Timeouts.Request = d
	return b
}

// Build returns a copy of the configuration.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg
	return &cfg
}
