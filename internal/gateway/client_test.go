package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/sentinel"
)

type ClientSuite struct {
	suite.Suite

	api          *httptest.Server
	client       *Client
	channelCalls atomic.Int64

	mu   sync.Mutex
	sent []string
}

func (s *ClientSuite) record(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, content)
}

func (s *ClientSuite) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.channelCalls.Store(0)
	s.sent = nil

	s.api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bot token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/u-1":
			json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "username": "jane", "bot": false})
		case r.Method == http.MethodGet && r.URL.Path == "/users/u-404":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPost && r.URL.Path == "/users/@me/channels":
			var body struct {
				RecipientID string `json:"recipient_id"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			switch body.RecipientID {
			case "u-404":
				w.WriteHeader(http.StatusNotFound)
			default:
				s.channelCalls.Add(1)
				json.NewEncoder(w).Encode(map[string]string{"id": "ch-" + body.RecipientID})
			}
		case r.Method == http.MethodPost && r.URL.Path == "/channels/ch-u-1/messages":
			var body struct {
				Content string `json:"content"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			s.record(body.Content)
			json.NewEncoder(w).Encode(map[string]string{"id": "m-1"})
		case r.Method == http.MethodPost && r.URL.Path == "/channels/ch-u-closed/messages":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	s.client = NewClient(s.api.URL, "token-1")
}

func (s *ClientSuite) TearDownTest() {
	s.api.Close()
}

func (s *ClientSuite) TestFetchUser() {
	ctx := context.Background()

	s.Run("resolves user", func() {
		user, err := s.client.FetchUser(ctx, "u-1")
		s.Require().NoError(err)
		s.Equal("u-1", user.ID)
		s.Equal("jane", user.Username)
		s.False(user.Bot)
	})

	s.Run("unknown user", func() {
		_, err := s.client.FetchUser(ctx, "u-404")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ClientSuite) TestSendDM() {
	ctx := context.Background()

	s.Run("opens channel and delivers", func() {
		s.Require().NoError(s.client.SendDM(ctx, "u-1", "hello"))
		s.Equal([]string{"hello"}, s.recorded())
	})

	s.Run("reuses cached channel", func() {
		s.Require().NoError(s.client.SendDM(ctx, "u-1", "again"))
		s.EqualValues(1, s.channelCalls.Load())
		s.Equal([]string{"hello", "again"}, s.recorded())
	})

	s.Run("unresolvable recipient", func() {
		err := s.client.SendDM(ctx, "u-404", "hello")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("dms disabled", func() {
		err := s.client.SendDM(ctx, "u-closed", "hello")
		s.Require().ErrorIs(err, sentinel.ErrForbidden)
	})
}
