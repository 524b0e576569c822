// Package apod provides an HTTP client for NASA's Astronomy Picture of the
// Day API.
//
// # Overview
//
// The client covers the single endpoint stargazer needs plus the image
// download that follows it:
//
//   - GET /planetary/apod?api_key=KEY&date=YYYY-MM-DD: metadata for one day
//   - GET <url|hdurl>: the picture itself, streamed to an io.Writer
//
//	client, err := apod.NewClient(apod.Options{APIKey: key})
//	if err != nil {
//		return err
//	}
//	pic, err := client.Picture(ctx, date)
//
// # Errors
//
// Non-2xx API responses decode into *APIError, whose Message is the text the
// service supplied ("Date must be between Jun 16, 1995 and ...", rate limit
// notices). Transport failures are returned wrapped from net/http and can be
// inspected with errors.As for *url.Error. Malformed payloads produce a
// "decode response" error.
//
// # Rate Limiting
//
// api.nasa.gov allows a fixed hourly quota per key (DEMO_KEY is small). The
// client throttles itself with a token bucket (Options.RequestsPerSecond) and
// records the X-RateLimit-Remaining header, exposed through RateRemaining.
//
// # Dates
//
// ParseDate and ValidateDate implement the published range
// [1995-06-16, today]. Drivers validate input with them before asking for a
// fetch; the client itself sends whatever date it is given.
package apod
