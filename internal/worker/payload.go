package worker

import (
	"encoding/json"
	"log/slog"

	"citapush/internal/domain/entity"
)

// DecodePayload parses an inbound push body. A missing or garbled body
// yields an empty payload so the handler still renders a default-content
// notification instead of dropping the message.
func DecodePayload(logger *slog.Logger, body []byte) *entity.PushPayload {
	payload := &entity.PushPayload{}
	if len(body) == 0 {
		return payload
	}

	if err := json.Unmarshal(body, payload); err != nil {
		logger.Warn("Malformed push payload, falling back to defaults",
			slog.Any("error", err),
		)

		return &entity.PushPayload{}
	}

	return payload
}
