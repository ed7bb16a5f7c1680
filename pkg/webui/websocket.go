package webui

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// SafeConn wraps a WebSocket connection with a write mutex and panic recovery
type SafeConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

// NewSafeConn creates a new safe connection wrapper
func NewSafeConn(conn *websocket.Conn) *SafeConn {
	return &SafeConn{
		conn:   conn,
		closed: false,
	}
}

// WriteJSON safely writes JSON to the WebSocket connection
func (sc *SafeConn) WriteJSON(v interface{}) error {
	if sc.closed {
		return nil
	}

	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()

	if sc.closed {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			sc.closed = true
		}
	}()

	return sc.conn.WriteJSON(v)
}

// Close closes the underlying connection
func (sc *SafeConn) Close() error {
	sc.writeMu.Lock()
	sc.closed = true
	sc.writeMu.Unlock()
	return sc.conn.Close()
}

// handleWebSocket upgrades the connection and keeps it subscribed to
// workspace events until the client goes away.
func (s *WorkspaceServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Logf("WebSocket upgrade error: %v", err)
		return
	}

	safeConn := NewSafeConn(conn)
	defer safeConn.Close()

	sessionID := fmt.Sprintf("ws_%d", time.Now().UnixNano())
	s.connections.Store(safeConn, &ConnectionInfo{
		SessionID:   sessionID,
		ConnectedAt: time.Now(),
	})
	defer s.connections.Delete(safeConn)

	s.logger.Logf("WebSocket client connected: %s", sessionID)

	safeConn.WriteJSON(map[string]interface{}{
		"type": "connection_status",
		"data": map[string]interface{}{"connected": true, "session_id": sessionID},
	})

	conn.SetReadLimit(512 * 1024)
	for {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				// Heartbeat timeout, send ping
				if err := safeConn.WriteJSON(map[string]interface{}{
					"type": "ping",
					"data": map[string]interface{}{"timestamp": time.Now().Unix()},
				}); err != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Logf("WebSocket %s read error: %v", sessionID, err)
			}
			return
		}

		s.handleWebSocketMessage(safeConn, msg)
	}
}

// handleWebSocketMessage processes incoming WebSocket messages
func (s *WorkspaceServer) handleWebSocketMessage(safeConn *SafeConn, msg map[string]interface{}) {
	msgType, ok := msg["type"].(string)
	if !ok {
		return
	}

	switch msgType {
	case "ping":
		safeConn.WriteJSON(map[string]interface{}{
			"type": "pong",
			"data": map[string]interface{}{"timestamp": time.Now().Unix()},
		})
	}
}

// broadcast sends an event to every connected client. Dead connections are
// dropped from the registry.
func (s *WorkspaceServer) broadcast(event string, data map[string]interface{}) {
	payload := map[string]interface{}{
		"type":      event,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	s.connections.Range(func(conn, _ interface{}) bool {
		sc, ok := conn.(*SafeConn)
		if !ok {
			return true
		}
		if err := sc.WriteJSON(payload); err != nil {
			sc.Close()
			s.connections.Delete(sc)
		}
		return true
	})
}
