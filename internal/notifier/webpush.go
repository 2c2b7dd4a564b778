package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/julianstephens/dailypunch/internal/constants"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/models"
)

// ErrSubscriptionGone means the push service no longer knows the
// subscription and it should be deleted.
var ErrSubscriptionGone = errors.New("push subscription expired or unsubscribed")

type WebPush struct {
	publicKey  string
	privateKey string
	subject    string
	client     webpush.HTTPClient
}

type WebPushOption func(*WebPush)

// WithHTTPClient replaces the client used to reach push services.
func WithHTTPClient(c webpush.HTTPClient) WebPushOption {
	return func(w *WebPush) { w.client = c }
}

func NewWebPush(publicKey, privateKey, subject string, opts ...WebPushOption) (*WebPush, error) {
	if publicKey == "" || privateKey == "" {
		return nil, apperrors.NotConfigured("VAPID keys")
	}
	w := &WebPush{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *WebPush) PublicKey() string {
	return w.publicKey
}

func (w *WebPush) Send(ctx context.Context, sub models.PushSubscription, msg Message) error {
	payload, err := msg.payload()
	if err != nil {
		return err
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      w.client,
		Subscriber:      w.subject,
		VAPIDPublicKey:  w.publicKey,
		VAPIDPrivateKey: w.privateKey,
		TTL:             constants.PushTTL,
		Urgency:         webpush.UrgencyNormal,
	})
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionGone
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// GenerateVAPIDKeys returns a new public/private key pair.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	return publicKey, privateKey, err
}
