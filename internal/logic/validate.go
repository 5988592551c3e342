package logic

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrEmptyURL    = errors.New("empty url")
	ErrNoScheme    = errors.New("url has no scheme")
	ErrNoAuthority = errors.New("url has no host")
)

// ValidateURL checks that raw is an absolute URL with a scheme and a host and returns
// its normalized form. Nothing is resolved over the network.
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("error parsing url: %w", err)
	}
	if u.Scheme == "" {
		return "", ErrNoScheme
	}
	if u.Opaque != "" || u.Host == "" {
		return "", ErrNoAuthority
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && (u.Scheme == "http" || u.Scheme == "https") {
		u.Path = "/"
	}

	return u.String(), nil
}
