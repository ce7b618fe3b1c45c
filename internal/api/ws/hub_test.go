package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockai/internal/services/analysis"
	"stockai/pkg/errors"
)

type stubAnalyzer struct {
	report *analysis.Report
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, message string) (*analysis.Report, error) {
	return s.report, s.err
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleChat))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestChatWelcomeMessage(t *testing.T) {
	hub := NewHub(&stubAnalyzer{})
	conn := dial(t, hub)

	env := readEnvelope(t, conn)
	assert.Equal(t, TypeSystem, env.Type)
	assert.Contains(t, env.Message, "StockAI")
}

func TestChatAnalysisFlow(t *testing.T) {
	hub := NewHub(&stubAnalyzer{
		report: &analysis.Report{Message: "📊 **삼성전자 분석 결과**", Reliability: "high"},
	})
	conn := dial(t, hub)
	readEnvelope(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(map[string]string{"message": "삼성전자 어때?"}))

	progress := readEnvelope(t, conn)
	assert.Equal(t, TypeSystem, progress.Type)
	assert.Contains(t, progress.Message, "분석을 시작합니다")

	bot := readEnvelope(t, conn)
	assert.Equal(t, TypeBot, bot.Type)
	assert.Contains(t, bot.Message, "삼성전자 분석 결과")
	assert.NotNil(t, bot.Data)
}

func TestChatNoEntityReturnsBotGuidance(t *testing.T) {
	hub := NewHub(&stubAnalyzer{err: errors.ErrNoStockEntity})
	conn := dial(t, hub)
	readEnvelope(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(map[string]string{"message": "안녕"}))
	readEnvelope(t, conn) // progress

	reply := readEnvelope(t, conn)
	assert.Equal(t, TypeBot, reply.Type)
	assert.Contains(t, reply.Message, "종목을 찾지 못했습니다")
}

func TestChatMalformedPayload(t *testing.T) {
	hub := NewHub(&stubAnalyzer{})
	conn := dial(t, hub)
	readEnvelope(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	reply := readEnvelope(t, conn)
	assert.Equal(t, TypeError, reply.Type)
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(&stubAnalyzer{})
	first := dial(t, hub)
	second := dial(t, hub)
	readEnvelope(t, first)
	readEnvelope(t, second)

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(Envelope{Type: TypePriceUpdate, Data: map[string]string{"symbol": "005930.KS"}})

	for _, conn := range []*websocket.Conn{first, second} {
		env := readEnvelope(t, conn)
		assert.Equal(t, TypePriceUpdate, env.Type)
	}
}

func TestClientCountDropsOnDisconnect(t *testing.T) {
	hub := NewHub(&stubAnalyzer{})
	conn := dial(t, hub)
	readEnvelope(t, conn)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
