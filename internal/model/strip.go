package model

import (
	"net/url"
	"strings"
)

// StripURL shortens an absolute URI to its most specific part: the
// fragment, else the last path segment, else the host. Values that do not
// parse as an absolute URI are returned unchanged.
func StripURL(value string) string {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" {
		return value
	}

	if frag := u.EscapedFragment(); frag != "" {
		return frag
	}

	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}

	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}

	if path != "" {
		return path
	}

	return u.Hostname()
}

// Discipline controls how identifiers are displayed.
type Discipline struct {
	// StripURLs shortens URI values with StripURL.
	StripURLs bool
}

// Apply returns the display form of value.
func (d Discipline) Apply(value string) string {
	if d.StripURLs {
		return StripURL(value)
	}

	return value
}
