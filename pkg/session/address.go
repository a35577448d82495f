package session

import (
	"net/url"
	"strings"

	"github.com/vendra/vendra/pkg/errors"
)

// reservedSegments are path segments that never name a database. Addresses
// like https://erp.example.com/web or .../jsonrpc are app entry points, not
// tenant hints.
var reservedSegments = map[string]struct{}{
	"web":     {},
	"saas":    {},
	"xmlrpc":  {},
	"jsonrpc": {},
}

// hostingSuffixes are the hosted-provider domains whose first subdomain label
// conventionally names the tenant database.
var hostingSuffixes = []string{".odoo.com", ".odoo.sh"}

// NormalizeServerURL turns whatever the user pasted — a bare host, a full app
// URL with query and fragment, an address with stray slashes — into a clean
// scheme://host[/path] form. The scheme defaults to https when none is given.
func NormalizeServerURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.NewInvalidAddressError("server address is empty", nil)
	}

	u, err := url.Parse(withScheme(trimmed))
	if err != nil {
		return "", errors.NewInvalidAddressError("server address is malformed: "+trimmed, err)
	}
	if u.Host == "" {
		return "", errors.NewInvalidAddressError("server address has no host: "+trimmed, nil)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.NewInvalidAddressError("unsupported scheme: "+u.Scheme, nil)
	}

	return u.Scheme + "://" + u.Host + cleanPath(u.Path), nil
}

// InferDatabaseFromURL extracts a database name embedded in the original,
// pre-normalization address. It checks the query string, the fragment, a
// single non-reserved path segment, and a hosted-provider subdomain, in that
// order. An empty result means the address carries no database hint.
func InferDatabaseFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(withScheme(trimmed))
	if err != nil {
		return ""
	}

	if db := u.Query().Get("db"); db != "" {
		return db
	}

	if db := databaseFromFragment(u.Fragment); db != "" {
		return db
	}

	if segments := pathSegments(u.Path); len(segments) == 1 {
		if _, reserved := reservedSegments[segments[0]]; !reserved {
			return segments[0]
		}
	}

	host := u.Hostname()
	for _, suffix := range hostingSuffixes {
		if strings.HasSuffix(host, suffix) {
			sub := strings.TrimSuffix(host, suffix)
			if sub != "" && sub != "www" && !strings.Contains(sub, ".") {
				return sub
			}
		}
	}

	return ""
}

func withScheme(address string) string {
	if strings.Contains(address, "://") {
		return address
	}
	return "https://" + address
}

// databaseFromFragment handles both "#db=acme" and "#/web?db=acme" forms.
func databaseFromFragment(fragment string) string {
	if fragment == "" {
		return ""
	}
	fragment = strings.TrimPrefix(fragment, "/")
	if i := strings.Index(fragment, "?"); i >= 0 {
		fragment = fragment[i+1:]
	}
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return ""
	}
	return values.Get("db")
}

func pathSegments(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// cleanPath collapses duplicate slashes and strips any trailing slash.
func cleanPath(path string) string {
	segments := pathSegments(path)
	if len(segments) == 0 {
		return ""
	}
	return "/" + strings.Join(segments, "/")
}
