package request

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"unicode"
)

const (
	// MultipartBoundary is the fixed boundary used for file uploads.
	MultipartBoundary = "----MyBoundary"

	// ContentTypeJSON is used for every non-upload body, including empty ones.
	ContentTypeJSON = "application/json"

	// HeaderSecurityTenant selects the tenant for saved objects.
	HeaderSecurityTenant = "securitytenant"

	// HeaderKibanaXSRF must accompany every call into the Kibana plugin API.
	HeaderKibanaXSRF = "kbn-xsrf"

	// LegacyKibanaPrefix is rewritten below KibanaPluginPrefix.
	LegacyKibanaPrefix = "api/kibana"

	// KibanaPluginPrefix is the path of the Kibana plugin on the cluster.
	KibanaPluginPrefix = "_plugin/kibana/"

	uploadPartName    = "file"
	uploadContentType = "application/octet-stream"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPut:    true,
	http.MethodPost:   true,
	http.MethodDelete: true,
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// IsSupportedMethod reports whether method is accepted by Encode.
func IsSupportedMethod(method string) bool {
	return allowedMethods[strings.ToUpper(strings.TrimSpace(method))]
}

// Encoded is a descriptor resolved into wire form, minus host and signature.
type Encoded struct {
	Method      string
	Path        string // host-relative, leading slash, query preserved
	ContentType string
	Body        []byte
	Header      http.Header
}

// Encode resolves a descriptor into its method, final path, body bytes and
// content headers.
func Encode(d Descriptor) (*Encoded, error) {
	method := strings.ToUpper(strings.TrimSpace(d.Method))
	if !allowedMethods[method] {
		return nil, &EncodingError{Request: d.String(), Reason: fmt.Sprintf("unsupported method %q", d.Method)}
	}
	if d.SecurityTenant != nil && hasControlChars(*d.SecurityTenant) {
		return nil, &EncodingError{Request: d.String(), Reason: "security tenant contains control characters"}
	}
	if d.Filename != nil && hasControlChars(*d.Filename) {
		return nil, &EncodingError{Request: d.String(), Reason: "filename contains control characters"}
	}

	header := make(http.Header)
	path := d.Path
	if isKibanaPath(path) {
		header.Set(HeaderKibanaXSRF, "kibana")
		if strings.HasPrefix(path, LegacyKibanaPrefix) {
			path = KibanaPluginPrefix + path
		}
	}

	body, contentType, err := encodeBody(d)
	if err != nil {
		return nil, err
	}

	header.Set("Content-Type", contentType)
	// Only DELETE with a body strictly needs it, other verbs ignore it.
	header.Set("Content-Length", strconv.Itoa(len(body)))
	if d.SecurityTenant != nil {
		header.Set(HeaderSecurityTenant, *d.SecurityTenant)
	}

	return &Encoded{
		Method:      method,
		Path:        "/" + strings.TrimPrefix(path, "/"),
		ContentType: contentType,
		Body:        body,
		Header:      header,
	}, nil
}

// hasControlChars reports values that would break a header line.
func hasControlChars(s string) bool {
	return strings.ContainsFunc(s, unicode.IsControl)
}

func isKibanaPath(path string) bool {
	return strings.HasPrefix(path, LegacyKibanaPrefix) || strings.HasPrefix(path, KibanaPluginPrefix)
}

func encodeBody(d Descriptor) ([]byte, string, error) {
	kind := d.Body.Kind()

	if d.Filename != nil {
		content, ok := d.Body.Text()
		if !ok && kind != BodyNone {
			return nil, "", &EncodingError{
				Request: d.String(),
				Reason:  fmt.Sprintf("file upload %q needs a string body, got %s", *d.Filename, kind),
			}
		}
		return encodeUpload(d, *d.Filename, content)
	}

	switch kind {
	case BodyString:
		content, ok := d.Body.Text()
		if !ok {
			return nil, "", &EncodingError{Request: d.String(), Reason: "malformed string body"}
		}
		return []byte(content), ContentTypeJSON, nil
	case BodyStructured:
		var buf bytes.Buffer
		if err := json.Compact(&buf, d.Body.Raw()); err != nil {
			return nil, "", &EncodingError{Request: d.String(), Reason: "invalid JSON body", Err: err}
		}
		return buf.Bytes(), ContentTypeJSON, nil
	default:
		return []byte{}, ContentTypeJSON, nil
	}
}

func encodeUpload(d Descriptor, filename, content string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(MultipartBoundary); err != nil {
		return nil, "", &EncodingError{Request: d.String(), Reason: "set multipart boundary", Err: err}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadPartName, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", uploadContentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", &EncodingError{Request: d.String(), Reason: "create multipart part", Err: err}
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return nil, "", &EncodingError{Request: d.String(), Reason: "write multipart part", Err: err}
	}
	if err := w.Close(); err != nil {
		return nil, "", &EncodingError{Request: d.String(), Reason: "close multipart body", Err: err}
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// Summary describes a body for logging without revealing its content.
func Summary(body []byte) string {
	if len(body) == 0 {
		return "empty"
	}
	sum := sha256.Sum256(body)
	return fmt.Sprintf("%d bytes sha256:%x", len(body), sum[:4])
}
