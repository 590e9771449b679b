package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboop/inboop_server/config"
	"github.com/inboop/inboop_server/internal/pkg/queue"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/pkg/signature"
	"github.com/inboop/inboop_server/internal/service"
)

const testAppSecret = "app-secret"

type memoryQueue struct {
	events []*queue.WebhookEvent
	err    error
}

func (q *memoryQueue) Push(_ context.Context, evt *queue.WebhookEvent) error {
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, evt)
	return nil
}

func webhookRouter(q *memoryQueue) *gin.Engine {
	svc := service.NewWebhookService(&config.WebhookConfig{VerifyToken: "verify-me", AppSecret: testAppSecret}, q)
	h := NewWebhookHandler(svc)

	router := gin.New()
	router.GET("/webhooks/meta", h.Verify)
	router.POST("/webhooks/meta", h.Receive)
	return router
}

func postWebhook(router http.Handler, body []byte, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/webhooks/meta", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(signature.Header, sig)
	}
	return serve(router, req)
}

func TestWebhookHandler_Verify(t *testing.T) {
	router := webhookRouter(&memoryQueue{})

	w := serve(router, newRequest("GET", "/webhooks/meta?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=1158201444"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1158201444", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = serve(router, newRequest("GET", "/webhooks/meta?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "1")
}

func TestWebhookHandler_Receive(t *testing.T) {
	q := &memoryQueue{}
	router := webhookRouter(q)
	body := []byte(`{"object":"instagram","entry":[{"id":"1","time":1,"messaging":[]}]}`)

	w := postWebhook(router, body, signature.Sign(testAppSecret, body))
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	require.Len(t, q.events, 1)
	assert.Equal(t, dataMap(t, resp)["event_id"], q.events[0].ID)
	assert.JSONEq(t, string(body), string(q.events[0].Payload))
}

func TestWebhookHandler_Receive_Rejected(t *testing.T) {
	body := []byte(`{"object":"page","entry":[]}`)

	tests := []struct {
		name   string
		body   []byte
		sig    string
		status int
		code   int
	}{
		{"missing signature", body, "", http.StatusUnauthorized, response.CodeAuthFailed},
		{"wrong secret", body, signature.Sign("other", body), http.StatusUnauthorized, response.CodeAuthFailed},
		{"tampered body", []byte(`{"object":"page","entry":[{}]}`), signature.Sign(testAppSecret, body), http.StatusUnauthorized, response.CodeAuthFailed},
		{"not json", []byte("hello"), signature.Sign(testAppSecret, []byte("hello")), http.StatusBadRequest, response.CodeParamError},
		{"no object", []byte(`{}`), signature.Sign(testAppSecret, []byte(`{}`)), http.StatusBadRequest, response.CodeParamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &memoryQueue{}
			w := postWebhook(webhookRouter(q), tt.body, tt.sig)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, parseResponse(t, w).Code)
			assert.Empty(t, q.events)
		})
	}
}

func TestWebhookHandler_Receive_QueueDown(t *testing.T) {
	router := webhookRouter(&memoryQueue{err: errors.New("redis unavailable")})
	body := []byte(`{"object":"page","entry":[]}`)

	w := postWebhook(router, body, signature.Sign(testAppSecret, body))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, response.CodeServerError, parseResponse(t, w).Code)
}
