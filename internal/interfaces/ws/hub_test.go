package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/crm-pipeline-api/internal/application/events"
	"github.com/jhoicas/crm-pipeline-api/pkg/logger"
)

type fakeSource struct {
	mu      sync.Mutex
	handler func(events.Event)
	ready   chan struct{}
}

func (s *fakeSource) Subscribe(ctx context.Context, handler func(events.Event)) error {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
	close(s.ready)
	<-ctx.Done()
	return nil
}

func (s *fakeSource) emit(ev events.Event) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	h(ev)
}

func verifyStatic(token string) (string, error) {
	if token != "ok" {
		return "", errors.New("token inválido")
	}
	return "user-1", nil
}

func TestHub_DifundeEventos(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &fakeSource{ready: make(chan struct{})}
	hub := NewHub(src, verifyStatic, logger.New(logger.Config{Env: "test", Level: "error"}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- hub.Run(ctx) }()

	srv := httptest.NewServer(hub)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=ok"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	<-src.ready
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	src.emit(events.Event{Type: events.OpportunityStageChanged, OpportunityID: "1", From: "Prospect", To: "Won"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev events.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, events.OpportunityStageChanged, ev.Type)
	assert.Equal(t, "Won", ev.To)

	cancel()
	assert.ErrorIs(t, <-runDone, context.Canceled)

	// El hub cierra la conexión al terminar.
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	_ = conn.Close()
	srv.Close()
}

func TestHub_RechazaSinToken(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &fakeSource{ready: make(chan struct{})}
	hub := NewHub(src, verifyStatic, logger.New(logger.Config{Env: "test", Level: "error"}), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws?token=malo")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://crm.example.com"})
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(r), "sin Origin")
	r.Header.Set("Origin", "https://crm.example.com")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(r))
	assert.True(t, originChecker(nil)(r))
}
