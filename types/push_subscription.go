package types

import (
	"encoding/hex"
	"encoding/json"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

// PushSubscription is the server's copy of a browser push subscription.
type PushSubscription struct {
	gorm.Model
	SubscriberID   string `gorm:"column:subscriber_id;uniqueIndex"`
	Endpoint       string `gorm:"column:endpoint"`
	P256DH         string `gorm:"column:p256dh"`
	Auth           string `gorm:"column:auth"`
	Keys           string `gorm:"column:keys"`
	ExpirationTime *int64 `gorm:"column:expiration_time"`
}

// SubscriptionJSON is the shape produced by PushSubscription.toJSON() in the browser.
type SubscriptionJSON struct {
	Endpoint       string       `json:"endpoint" validate:"required,url"`
	ExpirationTime *int64       `json:"expirationTime"`
	Keys           webpush.Keys `json:"keys"`
}

// SubscriberID derives the stable store key for an endpoint.
func SubscriberID(endpoint string) string {
	sum := blake2b.Sum256([]byte(endpoint))
	return hex.EncodeToString(sum[:])
}

func NewPushSubscription(sub SubscriptionJSON) (PushSubscription, error) {
	keys, err := json.Marshal(sub.Keys)
	if err != nil {
		return PushSubscription{}, errors.Wrap(err, "marshalling subscription keys")
	}

	return PushSubscription{
		SubscriberID:   SubscriberID(sub.Endpoint),
		Endpoint:       sub.Endpoint,
		P256DH:         sub.Keys.P256dh,
		Auth:           sub.Keys.Auth,
		Keys:           string(keys),
		ExpirationTime: sub.ExpirationTime,
	}, nil
}

func (s PushSubscription) Webpush() *webpush.Subscription {
	return &webpush.Subscription{
		Endpoint: s.Endpoint,
		Keys: webpush.Keys{
			P256dh: s.P256DH,
			Auth:   s.Auth,
		},
	}
}

func (s PushSubscription) JSON() SubscriptionJSON {
	return SubscriptionJSON{
		Endpoint:       s.Endpoint,
		ExpirationTime: s.ExpirationTime,
		Keys: webpush.Keys{
			P256dh: s.P256DH,
			Auth:   s.Auth,
		},
	}
}
