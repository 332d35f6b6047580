package dto

import (
	"encoding/json"
	"net/url"
	"strings"

	"checkout-bridge/internal/core/domain"
)

// webhookBody covers the processor's notification body shapes across API
// versions: {"type","data":{"id"}}, {"topic","resource"}, and the action
// form {"action":"payment.updated","data":{"id"}}.
type webhookBody struct {
	Type     string      `json:"type"`
	Topic    string      `json:"topic"`
	Action   string      `json:"action"`
	Resource string      `json:"resource"`
	ID       json.Number `json:"id"`
	Data     struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// NormalizeNotification folds the query parameters and body of one webhook
// delivery into a canonical Notification. Every historical shape is an
// explicit input variant here rather than an inline fallback chain in the
// handler. Unrecognized input yields a non-actionable notification, never
// an error: the delivery must still be acknowledged.
func NormalizeNotification(query url.Values, body []byte) domain.Notification {
	kind := query.Get("topic")
	if kind == "" {
		kind = query.Get("type")
	}
	ref := query.Get("id")
	if ref == "" {
		ref = query.Get("data.id")
	}

	if len(body) > 0 {
		var b webhookBody
		// Malformed bodies are ignored; query parameters may still carry
		// the identifiers.
		_ = json.Unmarshal(body, &b)
		if kind == "" {
			kind = firstNonEmpty(b.Topic, b.Type, b.Action)
		}
		if ref == "" {
			ref = firstNonEmpty(b.Resource, b.Data.ID.String(), b.ID.String())
		}
	}

	return domain.Notification{
		Kind:        normalizeKind(kind),
		ReferenceID: ref,
	}
}

func normalizeKind(raw string) domain.NotificationKind {
	raw = strings.ToLower(raw)
	switch {
	case strings.Contains(raw, "merchant_order"):
		return domain.KindMerchantOrder
	case strings.Contains(raw, "payment"):
		return domain.KindPayment
	default:
		return domain.KindOther
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
