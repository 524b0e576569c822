package apod

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Picture mirrors the payload returned by /planetary/apod.
type Picture struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	Explanation    string `json:"explanation"`
	Copyright      string `json:"copyright"`
	MediaType      string `json:"media_type"`
	URL            string `json:"url"`
	HDURL          string `json:"hdurl"`
	ServiceVersion string `json:"service_version"`
}

// ImageURL returns the URL to download, preferring the HD variant when asked
// and available.
func (p Picture) ImageURL(preferHD bool) string {
	if preferHD && strings.TrimSpace(p.HDURL) != "" {
		return strings.TrimSpace(p.HDURL)
	}
	return strings.TrimSpace(p.URL)
}

// APIError is a non-2xx response from the APOD API. Message is suitable for
// showing to a user.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("apod api returned status %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("apod api returned status %d: %s", e.Status, e.Message)
}

// RateLimited reports whether the API refused the request for quota reasons.
func (e *APIError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests || e.Code == "OVER_RATE_LIMIT"
}

// errorBody covers both error shapes the service emits:
//
//	{"code":400,"msg":"Date must be between Jun 16, 1995 and ..."}
//	{"error":{"code":"OVER_RATE_LIMIT","message":"..."}}
type errorBody struct {
	Code  json.RawMessage `json:"code"`
	Msg   string          `json:"msg"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload errorBody
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != nil:
			apiErr.Code = payload.Error.Code
			apiErr.Message = payload.Error.Message
		case payload.Msg != "":
			apiErr.Message = payload.Msg
		}
	}

	if strings.TrimSpace(apiErr.Message) == "" {
		apiErr.Message = http.StatusText(status)
	}
	if apiErr.Message == "" {
		apiErr.Message = "unexpected response"
	}
	return apiErr
}
