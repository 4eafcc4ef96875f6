package api

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ashvetsov/agenthub/internal/pipeline"
)

// HandleChatSocket streams conversational turns over a websocket. The client
// sends one request object per turn; the server answers with the same frame
// objects the HTTP stream uses, then waits for the next request on the same
// connection.
func (h *Handler) HandleChatSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("websocket close", "error", closeErr)
		}
	}()

	ctx := r.Context()
	for {
		var req agentRequest
		if err := wsjson.Read(ctx, ws, &req); err != nil {
			if websocket.CloseStatus(err) != -1 {
				return
			}
			slog.Debug("websocket read failed", "error", err)
			return
		}
		if req.Message == "" {
			_ = wsjson.Write(ctx, ws, tokenFrame{Token: "Error: message is required", Done: true})
			continue
		}
		if req.Model == "" {
			req.Model = h.defaultModel
		}

		a, ok := h.agents.Get(req.Agent)
		if !ok {
			if err := wsjson.Write(ctx, ws, tokenFrame{Token: "Unknown agent.", Done: true}); err != nil {
				return
			}
			continue
		}

		// The socket itself is stateless: each request carries its own
		// session id, taken from the previous done frame by the client.
		for ev, err := range h.pipe.Run(ctx, pipeline.Request{
			Agent:     a,
			Model:     req.Model,
			Message:   req.Message,
			SessionID: req.SessionID,
		}) {
			if err != nil {
				slog.Error("websocket turn failed", "agent", a.Name(), "error", err)
				if werr := wsjson.Write(ctx, ws, tokenFrame{Token: "Error: " + err.Error(), Done: true}); werr != nil {
					return
				}
				break
			}

			var frame any
			switch ev.Type {
			case pipeline.EventStatus:
				frame = statusFrame{Status: "loading", Message: ev.Status}
			case pipeline.EventToken:
				frame = tokenFrame{Token: ev.Token}
			case pipeline.EventDone:
				frame = doneFrame{Done: true, FullResponse: ev.FullResponse, SessionID: ev.SessionID}
			default:
				continue
			}
			if err := wsjson.Write(ctx, ws, frame); err != nil {
				return
			}
		}
	}
}
