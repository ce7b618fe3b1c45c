package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"stockai/internal/metrics"
	"stockai/internal/services/analysis"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

// analyzeTimeout bounds one full analysis triggered from chat.
const analyzeTimeout = 30 * time.Second

// Message types sent to clients.
const (
	TypeSystem      = "system"
	TypeBot         = "bot"
	TypeError       = "error"
	TypePriceUpdate = "price_update"
)

// Envelope is the wire format for every server-to-client message.
type Envelope struct {
	Type      string      `json:"type"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// inbound is what clients send: a chat message.
type inbound struct {
	Message string `json:"message"`
}

// Analyzer runs the full pipeline for one chat query.
type Analyzer interface {
	Analyze(ctx context.Context, message string) (*analysis.Report, error)
}

// client is one connected chat session. The mutex serializes writes;
// gorilla connections allow only one concurrent writer.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(env)
}

// Hub upgrades chat connections, routes queries to the analyzer, and
// broadcasts price updates to every session.
type Hub struct {
	analyzer Analyzer
	upgrader websocket.Upgrader
	log      *logger.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates the chat hub.
func NewHub(analyzer Analyzer) *Hub {
	return &Hub{
		analyzer: analyzer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Chat is public; the browser origin carries no auth.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     logger.Get().With("component", "ws_hub"),
		clients: make(map[string]*client),
	}
}

// HandleChat is the /ws/chat endpoint.
func (h *Hub) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	h.register(c)
	defer h.unregister(c)

	if err := c.send(Envelope{
		Type:      TypeSystem,
		Message:   "StockAI 챗봇에 연결되었습니다. 주식에 대해 물어보세요!",
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return
	}
	metrics.WebSocketMessages.WithLabelValues("out", TypeSystem).Inc()

	h.readLoop(r.Context(), c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	metrics.WebSocketConnections.Inc()
	h.log.Infof("Client %s connected", c.id)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	metrics.WebSocketConnections.Dec()
	_ = c.conn.Close()
	h.log.Infof("Client %s disconnected", c.id)
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("Client %s read error: %v", c.id, err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Message == "" {
			metrics.WebSocketMessages.WithLabelValues("in", TypeError).Inc()
			h.reply(c, Envelope{
				Type:    TypeError,
				Message: "메시지 형식이 올바르지 않습니다.",
			})
			continue
		}
		metrics.WebSocketMessages.WithLabelValues("in", "chat").Inc()

		h.handleQuery(ctx, c, msg.Message)
	}
}

func (h *Hub) handleQuery(ctx context.Context, c *client, query string) {
	h.reply(c, Envelope{
		Type:    TypeSystem,
		Message: "분석을 시작합니다... 🔍",
	})

	analyzeCtx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	report, err := h.analyzer.Analyze(analyzeCtx, query)
	if err != nil {
		h.reply(c, h.errorEnvelope(query, err))
		return
	}

	h.reply(c, Envelope{
		Type:    TypeBot,
		Message: report.Message,
		Data: map[string]interface{}{
			"analyses":    report.Analyses,
			"reliability": report.Reliability,
			"query":       report.Query,
		},
	})
}

func (h *Hub) errorEnvelope(query string, err error) Envelope {
	if errors.Is(err, errors.ErrNoStockEntity) {
		return Envelope{
			Type:    TypeBot,
			Message: "질문에서 종목을 찾지 못했습니다. 종목명이나 티커를 함께 입력해주세요.",
		}
	}
	h.log.Errorf("Analysis failed for query %q: %v", query, err)
	return Envelope{
		Type:    TypeError,
		Message: "분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
	}
}

func (h *Hub) reply(c *client, env Envelope) {
	if env.Timestamp.IsZero() {
		env.Timestamp = time.Now().UTC()
	}
	if err := c.send(env); err != nil {
		h.log.Warnf("Failed to write to client %s: %v", c.id, err)
		return
	}
	metrics.WebSocketMessages.WithLabelValues("out", env.Type).Inc()
}

// Broadcast delivers one envelope to every connected client. Slow or
// broken clients only lose their own message.
func (h *Hub) Broadcast(env Envelope) {
	if env.Timestamp.IsZero() {
		env.Timestamp = time.Now().UTC()
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(env); err != nil {
			h.log.Warnf("Broadcast to client %s failed: %v", c.id, err)
			continue
		}
		metrics.WebSocketMessages.WithLabelValues("out", env.Type).Inc()
	}
}

// ClientCount reports the number of open sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
