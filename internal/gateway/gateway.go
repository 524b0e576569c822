package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/stargazer/internal/apod"
	"github.com/five82/stargazer/internal/fetch"
	"github.com/five82/stargazer/internal/imagecache"
)

// Reasons shown to the user for expected failures.
const (
	ReasonUnreachable = "Unable to reach the APOD service. Check your network connection."
	ReasonNoImageURL  = "The picture for this date has no image URL."
	reasonAPIFallback = "The APOD service rejected the request."
)

// Ensure Gateway implements fetch.Gateway at compile time.
var _ fetch.Gateway = (*Gateway)(nil)

// Gateway fetches APOD metadata and caches the image it points at.
type Gateway struct {
	client   apod.PictureFetcher
	cache    *imagecache.Cache
	preferHD bool
	log      logrus.FieldLogger
}

// Options configure a Gateway.
type Options struct {
	PreferHD bool
	Logger   logrus.FieldLogger
}

type rateReporter interface {
	RateRemaining() int
}

// New builds a Gateway around client and cache.
func New(client apod.PictureFetcher, cache *imagecache.Cache, opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		client:   client,
		cache:    cache,
		preferHD: opts.PreferHD,
		log:      log,
	}
}

// Fetch implements fetch.Gateway.
func (g *Gateway) Fetch(ctx context.Context, date time.Time) (fetch.Result, error) {
	if g == nil || g.client == nil {
		return fetch.Result{}, fmt.Errorf("gateway not configured")
	}

	pic, err := g.client.Picture(ctx, date)
	g.logRateRemaining()
	if err != nil {
		if reason, ok := refusal(err); ok {
			g.log.WithError(err).WithFields(logrus.Fields{
				"date":         apod.FormatDate(date),
				"rate_limited": rateLimited(err),
			}).Warn("apod request refused")
			return fetch.Refused(reason), nil
		}
		return fetch.Result{}, fmt.Errorf("fetch picture metadata: %w", err)
	}
	if pic == nil {
		return fetch.Result{}, fmt.Errorf("fetch picture metadata: empty payload")
	}

	record := fetch.Record{
		Title:       pic.Title,
		Copyright:   pic.Copyright,
		Date:        pic.Date,
		Explanation: pic.Explanation,
		Media:       fetch.MediaKindOf(pic.MediaType),
		MediaType:   pic.MediaType,
		URL:         pic.URL,
		HDURL:       pic.HDURL,
	}
	if record.Media != fetch.MediaImage {
		return fetch.Found(record), nil
	}

	imageURL := pic.ImageURL(g.preferHD)
	if imageURL == "" {
		return fetch.Refused(ReasonNoImageURL), nil
	}
	if g.cache == nil {
		return fetch.Result{}, fmt.Errorf("image cache not configured")
	}

	path, err := g.cache.Fetch(ctx, date, imageURL, g.client.Download)
	if err != nil {
		if errors.Is(err, imagecache.ErrDownload) {
			g.log.WithError(err).WithField("url", imageURL).Warn("image download failed")
			if reason, ok := refusal(err); ok {
				return fetch.Refused(reason), nil
			}
			return fetch.Refused(ReasonUnreachable), nil
		}
		return fetch.Result{}, fmt.Errorf("cache image: %w", err)
	}
	record.ImagePath = path
	return fetch.Found(record), nil
}

func (g *Gateway) logRateRemaining() {
	rr, ok := g.client.(rateReporter)
	if !ok {
		return
	}
	if n := rr.RateRemaining(); n >= 0 {
		g.log.WithField("rate_remaining", n).Debug("apod rate limit")
	}
}

func rateLimited(err error) bool {
	var apiErr *apod.APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited()
}

// refusal maps expected remote failures to user-facing text.
func refusal(err error) (string, bool) {
	var apiErr *apod.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" {
			return reasonAPIFallback, true
		}
		return apiErr.Message, true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ReasonUnreachable, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ReasonUnreachable, true
	}
	return "", false
}
