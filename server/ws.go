package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadLimit   = 1 << 16
	wsWriteWait   = 5 * time.Second
	wsIdleTimeout = 2 * time.Minute
)

// wsReply is one websocket response. Exactly one of Move or Error is set.
type wsReply struct {
	Move   *MoveResponse `json:"move,omitempty"`
	Error  string        `json:"error,omitempty"`
	Status int           `json:"status"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	logger := s.logger.With(slog.String("remote", r.RemoteAddr))
	logger.Debug("websocket connected")

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read ended", slog.Any("err", err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		reply := s.answer(data)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			logger.Debug("websocket write failed", slog.Any("err", err))
			return
		}
	}
}

func (s *Server) answer(data []byte) wsReply {
	var req MoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsReply{Error: "decode request: " + err.Error(), Status: http.StatusBadRequest}
	}
	resp, err := s.Recommend(req)
	if err != nil {
		var br badRequest
		if !errors.As(err, &br) {
			s.logger.Warn("move rejected", slog.String("board", req.Board), slog.Any("err", err))
		}
		return wsReply{Error: err.Error(), Status: StatusFor(err)}
	}
	return wsReply{Move: &resp, Status: http.StatusOK}
}
