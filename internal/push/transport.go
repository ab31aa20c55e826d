package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrEndpointGone reports that the push service answered 404 or 410 for an
// endpoint: the browser subscription no longer exists and retrying this
// endpoint is pointless.
var ErrEndpointGone = errors.New("push endpoint gone")

// Sender delivers an encoded payload to a single endpoint.
type Sender interface {
	Send(ctx context.Context, endpoint *Endpoint, payload Payload) error
}

// WebPushSender delivers notifications over the Web Push protocol with VAPID
// authentication.
type WebPushSender struct {
	keys       *VAPIDKeys
	subscriber string
	client     *http.Client
	ttl        int
}

// NewWebPushSender creates a sender signing with the given VAPID pair.
// subscriber is the contact claim push services may use to reach the
// operator, usually a mailto: address.
func NewWebPushSender(keys *VAPIDKeys, subscriber string) *WebPushSender {
	return &WebPushSender{
		keys:       keys,
		subscriber: subscriber,
		client:     &http.Client{Timeout: 30 * time.Second},
		ttl:        24 * 60 * 60, // one day; readers who stay offline longer catch up in-app
	}
}

// Send encrypts and posts the payload to the endpoint's push service.
// Returns ErrEndpointGone when the service reports the subscription dead.
func (s *WebPushSender) Send(ctx context.Context, endpoint *Endpoint, payload Payload) error {
	body, err := payload.Encode()
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	sub := &webpush.Subscription{
		Endpoint: endpoint.URL,
		Keys: webpush.Keys{
			P256dh: endpoint.Keys.P256dh,
			Auth:   endpoint.Keys.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, sub, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.keys.PublicKey,
		VAPIDPrivateKey: s.keys.PrivateKey,
		TTL:             s.ttl,
		HTTPClient:      s.client,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrEndpointGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}
