package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
)

type dispatched struct {
	authorID string
	channel  models.ChannelKind
	content  string
}

// recorder captures dispatched messages on a channel because the webhook
// hands them off asynchronously.
type recorder struct {
	calls chan dispatched
}

func newRecorder() *recorder {
	return &recorder{calls: make(chan dispatched, 8)}
}

func (r *recorder) HandleMessage(_ context.Context, authorID string, channel models.ChannelKind, content string) {
	r.calls <- dispatched{authorID: authorID, channel: channel, content: content}
}

type WebhookSuite struct {
	suite.Suite

	recorder *recorder
	secret   string
	server   *httptest.Server
}

func TestWebhookSuite(t *testing.T) {
	suite.Run(t, new(WebhookSuite))
}

func (s *WebhookSuite) SetupTest() {
	s.recorder = newRecorder()
	s.secret = "webhook-secret"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(s.recorder, logger)
	s.server = httptest.NewServer(NewRouter(handler, s.secret, logger))
}

func (s *WebhookSuite) TearDownTest() {
	s.server.Close()
}

func (s *WebhookSuite) post(body, token string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/gateway/events", strings.NewReader(body))
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	return resp
}

func (s *WebhookSuite) signedToken(secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "gateway",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	s.Require().NoError(err)
	return signed
}

func (s *WebhookSuite) dmEvent(authorID, content string) string {
	return `{"type":"message_created","message":{"author_id":"` + authorID +
		`","author_is_bot":false,"channel_kind":"dm","content":"` + content + `"}}`
}

func (s *WebhookSuite) TestAuth() {
	s.Run("missing token", func() {
		resp := s.post(s.dmEvent("u-1", "start"), "")
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("wrong secret", func() {
		resp := s.post(s.dmEvent("u-1", "start"), s.signedToken("other-secret"))
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("valid token", func() {
		resp := s.post(s.dmEvent("u-1", "start"), s.signedToken(s.secret))
		s.Equal(http.StatusAccepted, resp.StatusCode)
	})
}

func (s *WebhookSuite) TestDispatch() {
	token := s.signedToken(s.secret)

	s.Run("dispatches dm messages", func() {
		resp := s.post(s.dmEvent("u-1", "start"), token)
		s.Equal(http.StatusAccepted, resp.StatusCode)

		select {
		case call := <-s.recorder.calls:
			s.Equal("u-1", call.authorID)
			s.Equal(models.ChannelDM, call.channel)
			s.Equal("start", call.content)
		case <-time.After(time.Second):
			s.Fail("message was not dispatched")
		}
	})

	s.Run("ignores bot authors", func() {
		body := `{"type":"message_created","message":{"author_id":"u-bot","author_is_bot":true,"channel_kind":"dm","content":"start"}}`
		resp := s.post(body, token)
		s.Equal(http.StatusAccepted, resp.StatusCode)
		s.assertNoDispatch()
	})

	s.Run("ignores guild channels", func() {
		body := `{"type":"message_created","message":{"author_id":"u-1","author_is_bot":false,"channel_kind":"guild","content":"start"}}`
		resp := s.post(body, token)
		s.Equal(http.StatusAccepted, resp.StatusCode)
		s.assertNoDispatch()
	})

	s.Run("ignores other event types", func() {
		resp := s.post(`{"type":"member_joined","message":{}}`, token)
		s.Equal(http.StatusAccepted, resp.StatusCode)
		s.assertNoDispatch()
	})

	s.Run("rejects malformed payloads", func() {
		resp := s.post(`{"type":`, token)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *WebhookSuite) assertNoDispatch() {
	select {
	case call := <-s.recorder.calls:
		s.Failf("unexpected dispatch", "got %+v", call)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *WebhookSuite) TestHealthz() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
