package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/viper"

	"github.com/imamik/searchprov/internal/platform/cluster"
)

// Viper keys.
const (
	KeyDomain          = "domain"
	KeyRegion          = "region"
	KeyProfile         = "profile"
	KeyDebug           = "debug"
	KeyRequestTimeout  = "timeouts.request"
	KeyCallbackTimeout = "timeouts.callback"
)

// Config is everything a provisioning run needs, resolved once.
type Config struct {
	Domain   string
	Region   string
	Endpoint cluster.Endpoint

	// Credentials signs cluster requests. Never logged.
	Credentials aws.CredentialsProvider

	Timeouts Timeouts
	Debug    bool
}

// NewViper returns a viper instance bound to the process environment.
func NewViper() *viper.Viper {
	v := viper.New()
	_ = v.BindEnv(KeyDomain, "DOMAIN")
	_ = v.BindEnv(KeyRegion, "REGION")
	_ = v.BindEnv(KeyProfile, "AWS_PROFILE")
	_ = v.BindEnv(KeyDebug, "DEBUG")
	_ = v.BindEnv(KeyRequestTimeout, "SEARCHPROV_TIMEOUT_REQUEST")
	_ = v.BindEnv(KeyCallbackTimeout, "SEARCHPROV_TIMEOUT_CALLBACK")
	return v
}

type loadOptions struct {
	credentials aws.CredentialsProvider
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

// WithCredentialsProvider skips the default AWS credential chain.
func WithCredentialsProvider(p aws.CredentialsProvider) LoadOption {
	return func(o *loadOptions) {
		o.credentials = p
	}
}

// Load resolves the configuration from v. Missing domain, region or
// credentials yield a *ConfigurationError; no request may be attempted then.
func Load(ctx context.Context, v *viper.Viper, opts ...LoadOption) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	domain := strings.TrimSpace(v.GetString(KeyDomain))
	if domain == "" {
		return nil, &ConfigurationError{Setting: "DOMAIN", Reason: "not set"}
	}
	region := strings.TrimSpace(v.GetString(KeyRegion))
	if region == "" {
		return nil, &ConfigurationError{Setting: "REGION", Reason: "not set"}
	}

	endpoint, err := cluster.ParseEndpoint(domain)
	if err != nil {
		return nil, &ConfigurationError{Setting: "DOMAIN", Reason: "invalid", Err: err}
	}

	provider := o.credentials
	if provider == nil {
		provider, err = defaultCredentials(ctx, region, v.GetString(KeyProfile))
		if err != nil {
			return nil, err
		}
	}

	creds, err := provider.Retrieve(ctx)
	if err != nil {
		return nil, &ConfigurationError{Setting: "credentials", Reason: "cannot be resolved", Err: err}
	}
	if !creds.HasKeys() {
		return nil, &ConfigurationError{Setting: "credentials", Reason: "no access key found"}
	}

	return &Config{
		Domain:      domain,
		Region:      region,
		Endpoint:    endpoint,
		Credentials: provider,
		Timeouts:    LoadTimeouts(v),
		Debug:       v.GetBool(KeyDebug),
	}, nil
}

func defaultCredentials(ctx context.Context, region, profile string) (aws.CredentialsProvider, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &ConfigurationError{Setting: "credentials", Reason: "failed to load AWS config", Err: err}
	}
	if awsCfg.Credentials == nil {
		return nil, &ConfigurationError{Setting: "credentials", Reason: "no credential provider configured"}
	}
	return awsCfg.Credentials, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("endpoint=%s region=%s", c.Endpoint, c.Region)
}
