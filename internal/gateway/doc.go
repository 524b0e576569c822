// Package gateway implements fetch.Gateway on top of the APOD client and the
// on-disk image cache.
//
// # Overview
//
// The coordinator in package fetch knows nothing about HTTP, JSON or files.
// It asks a Gateway for the picture of one date and expects one of three
// answers:
//
//   - fetch.Found(record): the service answered with an entry
//   - fetch.Refused(reason): an expected failure the user can act on
//   - a non-nil error: a fault, which the coordinator reports as a system
//     failure with a generic message
//
// Gateway produces those answers from an apod.PictureFetcher (normally
// *apod.Client) and an *imagecache.Cache.
//
// # Fetch Flow
//
// A call to Fetch goes through these steps:
//
//  1. Request the metadata for the date from /planetary/apod.
//  2. Log the remaining request quota when the client tracks it.
//  3. Map the media_type to fetch.MediaImage or fetch.MediaOther.
//  4. Return non-image entries as found records without downloading.
//  5. Pick the image URL, the HD variant when Options.PreferHD is set and
//     the entry has one.
//  6. Fetch the image through the cache. A cache hit skips the download.
//  7. Set the local file path on the record and return it as found.
//
// # Error Classification
//
// The split between refusals and faults is the contract callers rely on, so
// it is spelled out here.
//
// Refusals (fetch.Refused, shown to the user verbatim):
//
//   - *apod.APIError from the metadata request, such as a date outside the
//     archive (400) or OVER_RATE_LIMIT (429). The API's own message is used,
//     or a fixed fallback when the body carried none.
//   - Transport failures (*url.Error, net.Error) such as DNS, dial or
//     timeout errors. These become ReasonUnreachable.
//   - Errors tagged imagecache.ErrDownload: the image request failed on the
//     network side or returned an HTTP error. An APIError keeps its message,
//     everything else becomes ReasonUnreachable.
//   - An image entry with no URL at all (ReasonNoImageURL).
//
// Faults (returned as errors):
//
//   - A metadata body that is not valid JSON.
//   - Any cache error not tagged ErrDownload: creating the cache directory,
//     writing or closing the temp file, renaming it into place. A full disk
//     while the image is streaming lands here, not in the network bucket.
//   - A Gateway built without a client or cache.
//
// Refusals are logged at warn level, and metadata refusals carry a
// rate_limited field. Faults are logged by the coordinator, which attaches
// the request id.
//
// # Usage
//
//	client, _ := apod.NewClient(apod.Options{APIKey: cfg.APIKey})
//	cache, _ := imagecache.New(cfg.CacheDir, log)
//	gw := gateway.New(client, cache, gateway.Options{PreferHD: cfg.PreferHD, Logger: log})
//
//	coord := fetch.NewCoordinator(gw, onOutcome, fetch.WithLogger(log))
//
// # Concurrency
//
// Gateway holds no mutable state of its own. The coordinator runs at most one
// Fetch at a time, but concurrent calls are safe as long as the client is
// (apod.Client is).
package gateway
