package fetch

import (
	"context"
	"strings"
	"time"
)

// MediaKind classifies what a picture record points at.
type MediaKind int

const (
	MediaOther MediaKind = iota
	MediaImage
)

func (k MediaKind) String() string {
	if k == MediaImage {
		return "image"
	}
	return "other"
}

// MediaKindOf maps the API's media_type value to a MediaKind.
func MediaKindOf(mediaType string) MediaKind {
	if strings.EqualFold(strings.TrimSpace(mediaType), "image") {
		return MediaImage
	}
	return MediaOther
}

// Record is the metadata for one day's picture as produced by a Gateway.
type Record struct {
	Title       string
	Copyright   string
	Date        string // YYYY-MM-DD as returned by the API
	Explanation string
	Media       MediaKind
	MediaType   string
	URL         string
	HDURL       string
	ImagePath   string // local cached file; only set for MediaImage
}

// Result is the normal return of a Gateway: either a record was found or the
// remote side refused the request with a user-facing reason.
type Result struct {
	record *Record
	reason string
}

// Found wraps a record returned by the remote API.
func Found(r Record) Result {
	return Result{record: &r}
}

// Refused wraps an expected failure reported to the user verbatim.
func Refused(reason string) Result {
	if reason == "" {
		reason = "request refused"
	}
	return Result{reason: reason}
}

// Record returns the found record. ok is false for refused results.
func (r Result) Record() (Record, bool) {
	if r.record == nil {
		return Record{}, false
	}
	return *r.record, true
}

// Reason returns the refusal text. ok is false for found results.
func (r Result) Reason() (string, bool) {
	if r.record != nil {
		return "", false
	}
	return r.reason, true
}

// Gateway performs the network request and image caching for a date.
// A non-nil error signals a fault the caller cannot act on.
type Gateway interface {
	Fetch(ctx context.Context, date time.Time) (Result, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, date time.Time) (Result, error)

// Fetch calls f.
func (f GatewayFunc) Fetch(ctx context.Context, date time.Time) (Result, error) {
	return f(ctx, date)
}
