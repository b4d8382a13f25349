package volcengine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	signAlgorithm   = "HMAC-SHA256"
	signedHeaderSet = "content-type;host;x-content-sha256;x-date"
	contentTypeJSON = "application/json"
	scopeTerminal   = "request"

	// XDateFormat is the ISO8601 basic layout used by the X-Date header.
	XDateFormat = "20060102T150405Z"
	scopeDate   = "20060102"
)

// Credentials is an access key pair. It never prints its secret.
type Credentials struct {
	AccessKey string
	SecretKey string
}

// Validate returns ErrMissingCredentials when either key is blank.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.AccessKey) == "" || strings.TrimSpace(c.SecretKey) == "" {
		return ErrMissingCredentials
	}
	return nil
}

func (c Credentials) String() string {
	return "Credentials{AccessKey:" + redact(c.AccessKey) + ", SecretKey:" + redact(c.SecretKey) + "}"
}

// GoString keeps %#v from leaking the keys.
func (c Credentials) GoString() string { return c.String() }

func redact(v string) string {
	if v == "" {
		return `""`
	}
	return "[redacted]"
}

// SignInput is everything that goes into one signature. Time is captured once by
// the caller and used for both X-Date and the credential scope.
type SignInput struct {
	Method  string
	Host    string
	URI     string
	Query   map[string]string
	Body    []byte
	Region  string
	Service string
	Time    time.Time
}

// SignedHeaders are the request headers produced by Sign.
type SignedHeaders struct {
	Authorization string
	Date          string
	ContentSHA256 string
}

// Apply sets the signed headers plus the Content-Type they were computed over.
func (h SignedHeaders) Apply(header http.Header) {
	header.Set("Content-Type", contentTypeJSON)
	header.Set("X-Date", h.Date)
	header.Set("X-Content-Sha256", h.ContentSHA256)
	header.Set("Authorization", h.Authorization)
}

// Sign computes the HMAC-SHA256 authorization for a request. It performs no I/O.
func Sign(in SignInput, creds Credentials) (SignedHeaders, error) {
	if err := creds.Validate(); err != nil {
		return SignedHeaders{}, err
	}
	if in.Time.IsZero() {
		return SignedHeaders{}, errors.New("volcengine: signing time is required")
	}
	t := in.Time.UTC().Truncate(time.Second)
	xDate := t.Format(XDateFormat)
	date := t.Format(scopeDate)

	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = "POST"
	}
	uri := in.URI
	if uri == "" {
		uri = "/"
	}

	payloadHash := sha256Hex(in.Body)
	canonical := canonicalRequest(method, uri, CanonicalQuery(in.Query), in.Host, payloadHash, xDate)
	scope := credentialScope(date, in.Region, in.Service)
	stringToSign := strings.Join([]string{
		signAlgorithm,
		xDate,
		scope,
		sha256Hex([]byte(canonical)),
	}, "\n")

	key := signingKey(creds.SecretKey, date, in.Region, in.Service)
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	return SignedHeaders{
		Authorization: signAlgorithm + " Credential=" + creds.AccessKey + "/" + scope +
			", SignedHeaders=" + signedHeaderSet + ", Signature=" + signature,
		Date:          xDate,
		ContentSHA256: payloadHash,
	}, nil
}

// CanonicalQuery sorts keys byte-wise and joins key=value pairs with '&'.
// Values are used as given; no additional encoding is applied.
func CanonicalQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

func canonicalRequest(method, uri, query, host, payloadHash, xDate string) string {
	headers := "content-type:" + contentTypeJSON + "\n" +
		"host:" + host + "\n" +
		"x-content-sha256:" + payloadHash + "\n" +
		"x-date:" + xDate + "\n"
	return strings.Join([]string{method, uri, query, headers, signedHeaderSet, payloadHash}, "\n")
}

func credentialScope(date, region, service string) string {
	return date + "/" + region + "/" + service + "/" + scopeTerminal
}

func signingKey(secret, date, region, service string) []byte {
	kDate := hmacSHA256([]byte(secret), date)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, scopeTerminal)
}

func hmacSHA256(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
