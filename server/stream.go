package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/TFMV/forcegraph/editor"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// writeWait bounds a single websocket write
const writeWait = 5 * time.Second

// streamMessage is a command sent by a websocket client. Type selects which
// of the embedded requests applies.
type streamMessage struct {
	Type string `json:"type"` // select, key, pointer, tree or rotate

	selectRequest
	keyRequest
	pointerRequest
	treeRequest
	rotateRequest
}

func (m *streamMessage) request() (request, error) {
	switch m.Type {
	case "select":
		return &m.selectRequest, nil
	case "key":
		return &m.keyRequest, nil
	case "pointer":
		return &m.pointerRequest, nil
	case "tree":
		return &m.treeRequest, nil
	case "rotate":
		return &m.rotateRequest, nil
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", errBadRequest, m.Type)
	}
}

// handleStream upgrades to a websocket that receives scenes at most StreamFPS
// times a second and may send commands back
func (s *Server) handleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn("ws upgrade failed", "err", err)
			return
		}
		defer c.Close()

		// the server's read timeout must not cut the stream
		c.SetReadDeadline(time.Time{})

		s.metrics.streams.Inc()
		defer s.metrics.streams.Dec()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go s.readCommands(ctx, cancel, c)

		s.log.Debug("stream opened", "remote", r.RemoteAddr)
		limiter := rate.NewLimiter(rate.Limit(s.cfg.StreamFPS), 1)
		for {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
			scene, err := s.Scene(ctx)
			if err != nil {
				break
			}
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteJSON(scene); err != nil {
				s.log.Debug("stream write failed", "err", err)
				break
			}
		}
		s.log.Debug("stream closed", "remote", r.RemoteAddr)
	}
}

// readCommands applies client messages until the connection fails, then
// cancels the stream. Malformed messages are logged and skipped.
func (s *Server) readCommands(ctx context.Context, cancel context.CancelFunc, c *websocket.Conn) {
	defer cancel()
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("bad stream message", "err", err)
			continue
		}
		req, err := msg.request()
		if err != nil {
			s.log.Debug("bad stream message", "err", err)
			continue
		}

		err = s.Do(ctx, func(ed *editor.Editor) error {
			_, err := req.apply(ed)
			return err
		})
		if err != nil {
			s.log.Debug("stream command failed", "type", msg.Type, "err", err)
		}
	}
}
