package handler

import (
	"context"
	"net/http"
	"testing"

	"citapush/config"
	"citapush/internal/domain/entity"
	"citapush/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationUC struct {
	subscriberID string
	payload      *entity.PushPayload
	result       *usecase.NotifyResult
}

func (f *fakeNotificationUC) Notify(_ context.Context, subscriberID string, payload *entity.PushPayload) (*usecase.NotifyResult, error) {
	f.subscriberID = subscriberID
	f.payload = payload

	return f.result, nil
}

func newNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	cfg := &config.Config{Push: &config.PushConfig{PublicKey: "BPublicKey"}}

	return NewNotificationHandler(NotificationHandlerParams{
		Config:         cfg,
		NotificationUC: uc,
		Logger:         discardLogger(),
	})
}

func TestNotify_FansOut(t *testing.T) {
	uc := &fakeNotificationUC{result: &usecase.NotifyResult{Sent: 2, Pruned: 1}}
	h := newNotificationHandler(uc)

	// citaId arrives as a bare number here, the handler must still accept it
	body := `{"subscriber_id": "42", "title": "Cita confirmada", "citaId": 7}`
	c, rec := newSubscriptionContext(t, http.MethodPost, "/api/push/notify", body)

	require.NoError(t, h.Notify(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", uc.subscriberID)
	assert.Equal(t, "Cita confirmada", uc.payload.Title)
	assert.Equal(t, entity.CitaID("7"), uc.payload.CitaID)
	assert.Contains(t, rec.Body.String(), `"sent":2`)
	assert.Contains(t, rec.Body.String(), `"pruned":1`)
}

func TestNotify_RequiresSubscriber(t *testing.T) {
	h := newNotificationHandler(&fakeNotificationUC{})
	c, rec := newSubscriptionContext(t, http.MethodPost, "/api/push/notify", `{"title": "sin destino"}`)

	require.NoError(t, h.Notify(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVAPIDKey(t *testing.T) {
	h := newNotificationHandler(&fakeNotificationUC{})
	c, rec := newSubscriptionContext(t, http.MethodGet, "/api/push/key", "")

	require.NoError(t, h.VAPIDKey(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BPublicKey")
}
