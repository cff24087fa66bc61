// Package bucket builds public URLs for objects kept in the storage service.
package bucket

import (
	"net/url"
	"strings"
)

// Resolver maps bucket/path pairs to public object URLs under BaseURL.
type Resolver struct {
	BaseURL string
}

// NewResolver creates a Resolver for the storage service at baseURL.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// PublicURL returns {base}/storage/v1/object/public/{bucket}/{path}. Each
// path segment is escaped; empty segments are dropped. It reports false
// when the base URL, bucket or path is empty.
func (r *Resolver) PublicURL(bucket, path string) (string, bool) {
	base := strings.TrimRight(r.BaseURL, "/")
	bucket = strings.Trim(strings.TrimSpace(bucket), "/")
	if base == "" || bucket == "" {
		return "", false
	}

	var segments []string
	for _, s := range strings.Split(strings.TrimSpace(path), "/") {
		if s != "" {
			segments = append(segments, url.PathEscape(s))
		}
	}
	if len(segments) == 0 {
		return "", false
	}
	return base + "/storage/v1/object/public/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/"), true
}
