// Package push implements Web Push notification delivery: endpoint handling,
// VAPID key management, and the subscriber fan-out dispatcher.
package push

import (
	"encoding/json/v2"
	"errors"
)

// ErrMalformedEndpoint reports an endpoint blob that does not parse into a
// usable Web Push subscription. Stored blobs are opaque until delivery time,
// so malformed ones surface here rather than at registration.
var ErrMalformedEndpoint = errors.New("malformed push endpoint")

// Endpoint is the browser-issued Web Push subscription: the push service URL
// plus the client keys needed to encrypt payloads for it.
type Endpoint struct {
	URL  string `json:"endpoint"`
	Keys Keys   `json:"keys"`
}

// Keys holds the client-side encryption material from the browser.
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// ParseEndpoint decodes the raw JSON blob a browser hands over on push
// registration. Returns ErrMalformedEndpoint when the blob is not valid JSON
// or lacks the URL or either key.
func ParseEndpoint(raw string) (*Endpoint, error) {
	var ep Endpoint
	if err := json.Unmarshal([]byte(raw), &ep); err != nil {
		return nil, ErrMalformedEndpoint
	}
	if ep.URL == "" || ep.Keys.P256dh == "" || ep.Keys.Auth == "" {
		return nil, ErrMalformedEndpoint
	}
	return &ep, nil
}

// Payload is the notification document delivered to the service worker.
// Field names match what the client-side notification handler reads.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Encode marshals the payload for the wire.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}
