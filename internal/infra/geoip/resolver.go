package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when the resolver has no database loaded.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Resolver answers ISO country codes from a MaxMind GeoIP2/GeoLite2 country database.
// The zero value and a nil *Resolver are valid and always return ErrUnavailable.
type Resolver struct {
	reader *geoip2.Reader
}

// Open loads the database at path. An empty path yields a disabled resolver, not an error.
func Open(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return &Resolver{}, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// Enabled reports whether a database is loaded.
func (r *Resolver) Enabled() bool {
	return r != nil && r.reader != nil
}

// CountryCode returns the ISO country code for ip, or "" when the database has no answer.
func (r *Resolver) CountryCode(ip string) (string, error) {
	if !r.Enabled() {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record == nil {
		return "", nil
	}
	return record.Country.IsoCode, nil
}

// Lookup returns CountryCode as a plain function, or nil when the resolver is disabled,
// so callers can skip the lookup entirely.
func (r *Resolver) Lookup() func(ip string) (string, error) {
	if !r.Enabled() {
		return nil
	}
	return r.CountryCode
}

// Close releases the database reader.
func (r *Resolver) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.reader.Close()
}
