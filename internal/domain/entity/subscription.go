package entity

import "time"

// SubscriptionKeys holds the client-side key material of a push
// subscription, both values URL-safe base64 without padding.
type SubscriptionKeys struct {
	// P256dh is the client ECDH public key on the P-256 curve
	P256dh string `json:"p256dh" validate:"required"`
	// Auth is the 16-byte authentication secret
	Auth string `json:"auth" validate:"required"`
}

// PushSubscription is the platform-issued credential a delivery service
// uses to route encrypted messages to one device. The application treats
// it as opaque beyond serialization.
type PushSubscription struct {
	Endpoint string           `json:"endpoint" validate:"required,uri"`
	Keys     SubscriptionKeys `json:"keys"`
}

// SubscriptionRecord is the wire shape submitted to the backend: the
// platform subscription plus the caller-supplied subscriber identity.
type SubscriptionRecord struct {
	Subscription PushSubscription `json:"subscription"`
	SubscriberID string           `json:"subscriber_id"`
	CreatedAt    time.Time        `json:"created_at,omitzero"`
}
