package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/quill/pkg/memtree"
)

const liveWriteTimeout = 5 * time.Second

// liveMessage is sent to every /ws client after each mutation. The first
// message on a connection is a snapshot with no ops.
type liveMessage struct {
	HTML string   `json:"html"`
	Ops  []string `json:"ops"`
}

func newLiveMessage(html string, ops memtree.Log) liveMessage {
	lines := make([]string, 0, len(ops))
	for _, op := range ops {
		lines = append(lines, op.String())
	}
	return liveMessage{HTML: html, Ops: lines}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || strings.HasSuffix(origin, "://"+r.Host)
	},
}

// handleLive upgrades to a WebSocket and streams patches until the client
// disconnects.
func (s *demoServer) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	logger := s.logger.With("client_id", uuid.NewString())
	logger.Debug("live client connected")

	s.mu.Lock()
	err = s.send(conn, newLiveMessage(s.demo.HTML(), nil))
	if err == nil {
		s.clients[conn] = struct{}{}
	}
	s.mu.Unlock()
	if err != nil {
		conn.Close()
		return
	}

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
	logger.Debug("live client disconnected")
}

func (s *demoServer) send(conn *websocket.Conn, msg liveMessage) error {
	conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return conn.WriteJSON(msg)
}

// publish records ops for /ops and pushes them to live clients.
// Callers must hold s.mu.
func (s *demoServer) publish(ops memtree.Log) {
	if len(ops) == 0 {
		return
	}
	s.pending = append(s.pending, ops...)

	msg := newLiveMessage(s.demo.HTML(), ops)
	for conn := range s.clients {
		if err := s.send(conn, msg); err != nil {
			s.logger.Debug("dropping live client", "error", err)
			delete(s.clients, conn)
			conn.Close()
		}
	}
}
