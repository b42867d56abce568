package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Scheme prefixes locations served by this package.
const Scheme = "s3://"

// ErrNotFound means the bucket or key does not exist.
var ErrNotFound = errors.New("object not found")

// Client wraps the S3 client for asset downloads.
type Client struct {
	s3 *s3.Client
}

// Options configures NewClient.
type Options struct {
	Region      string
	Credentials aws.CredentialsProvider

	// Endpoint overrides the regional endpoint (path-style addressing).
	Endpoint string
}

// NewClient creates an S3 client.
func NewClient(opts Options) *Client {
	client := s3.New(s3.Options{
		Region:      opts.Region,
		Credentials: opts.Credentials,
	}, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{s3: client}
}

// IsLocation reports whether location is an s3:// URL.
func IsLocation(location string) bool {
	return strings.HasPrefix(location, Scheme)
}

// ParseLocation splits s3://bucket/key into bucket and key.
func ParseLocation(location string) (bucket, key string, err error) {
	if !IsLocation(location) {
		return "", "", fmt.Errorf("not an S3 location: %s", location)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(location, Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("S3 location %s needs a bucket and a key", location)
	}
	return bucket, key, nil
}

// Fetch downloads the object at an s3:// location.
func (c *Client) Fetch(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	return c.GetObject(ctx, bucket, key)
}

// GetObject downloads an object from a bucket.
func (c *Client) GetObject(ctx context.Context, bucketName, key string) ([]byte, error) {
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucketName, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucketName, err)
	}
	defer result.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return buf.Bytes(), nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	// S3-compatible stores do not always return the typed errors.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey" || code == "NoSuchBucket" || code == "404"
	}

	return false
}
