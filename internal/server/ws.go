// Package server provides the HTTP server for the Mudra gesture
// recognition system.
package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/smooth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StreamHandler runs a realtime recognition session over a WebSocket. The
// client sends one message per frame with the detected hand landmarks; the
// server answers with a stable emission whenever the smoother produces one,
// and stays silent otherwise.
type StreamHandler struct {
	engine *engine.Engine
}

// NewStreamHandler creates a new StreamHandler with the given engine.
func NewStreamHandler(e *engine.Engine) *StreamHandler {
	return &StreamHandler{engine: e}
}

// frameMessage is one inbound message. Hands carries 0-2 landmark sets for
// the current frame. Reset clears the session; Params replaces the
// smoothing parameters (and also resets).
type frameMessage struct {
	Hands  [][]landmark.Point3D `json:"hands"`
	Reset  bool                 `json:"reset,omitempty"`
	Params *smooth.Params       `json:"params,omitempty"`
}

// emissionMessage is the outbound stable-label message.
type emissionMessage struct {
	Type       string  `json:"type"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// errorMessage reports a recoverable per-frame error to the client.
type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// ServeHTTP handles WebSocket upgrade requests and runs the session loop.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// One smoother per connection: session state is never shared.
	session := h.engine.NewSession()

	for {
		var msg frameMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		if msg.Params != nil {
			session.UpdateSmoothing(*msg.Params)
			continue
		}
		if msg.Reset {
			session.Reset()
			continue
		}

		poses := make([]*landmark.HandPose, 0, len(msg.Hands))
		badFrame := false
		for _, hand := range msg.Hands {
			pose, err := landmark.PoseFromSlice(hand)
			if err != nil {
				conn.WriteJSON(errorMessage{Type: "error", Error: err.Error()})
				badFrame = true
				break
			}
			poses = append(poses, pose)
		}
		if badFrame {
			continue
		}

		result, err := session.ProcessFrame(poses)
		if err != nil {
			// Recoverable: skip the frame, keep the session alive.
			if !errors.Is(err, classify.ErrNotTrained) {
				conn.WriteJSON(errorMessage{Type: "error", Error: err.Error()})
			}
			continue
		}

		if result.Stable != nil {
			conn.WriteJSON(emissionMessage{
				Type:       "stable",
				Label:      result.Stable.Label,
				Confidence: result.Stable.Confidence,
			})
		}
	}
}
