package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/service"
	ws "github.com/stemsi/student-records/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler drives the form over a WebSocket. Client actions are
// applied to the session; every resulting view is pushed to all
// connected clients, including changes made over HTTP.
type WSHandler struct {
	formService *service.FormService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
	hub         *ws.Hub
}

// NewWSHandler creates a new WSHandler and subscribes its hub to the
// form session.
func NewWSHandler(formService *service.FormService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	h := &WSHandler{
		formService: formService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
		hub:         ws.NewHub(log),
	}
	formService.OnChange(h.broadcastView)
	return h
}

// FormStream godoc
// WS /ws/v1/form
// Sends the current view on connect, then every later view plus one
// reply per client action that does not change the session.
func (h *WSHandler) FormStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	wsLog := h.log.With().Str("request_id", response.RequestID(c)).Logger()
	wsLog.Info().Msg("Form client connected")

	client := ws.NewClient(conn)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := client.WritePump(); err != nil {
			wsLog.Debug().Err(err).Msg("Write failed")
			h.hub.Unregister(client)
		}
	}()
	defer func() {
		h.hub.Unregister(client)
		<-done
	}()

	h.hub.Register(client)
	if err := client.Send(ws.ViewResponse{Event: ws.EventView, View: h.formService.Snapshot()}); err != nil {
		wsLog.Debug().Err(err).Msg("Initial view not queued")
		return
	}

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		if err := h.dispatch(client, &msg); err != nil {
			wsLog.Debug().Err(err).Str("action", string(msg.Action)).Msg("Reply not queued")
			return
		}
	}
}

// dispatch applies one action. The view of a successful transition
// reaches the client through the hub; dispatch only queues replies
// addressed to this client. Only queueing errors are returned.
func (h *WSHandler) dispatch(client *ws.Client, msg *ws.RequestPayload) error {
	switch msg.Action {
	case ws.ActionPing:
		return client.Send(ws.PongResponse{Event: ws.EventPong})

	case ws.ActionSetField:
		if _, err := h.formService.SetField(model.Field(msg.Field), msg.Value); err != nil {
			return h.reportError(client, err)
		}

	case ws.ActionSubmit:
		result, err := h.formService.Submit()
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return client.Send(ws.InvalidResponse{Event: ws.EventInvalid, Fields: verr.Fields.Strings()})
		case err != nil:
			return h.reportError(client, err)
		default:
			return client.Send(ws.SavedResponse{Event: ws.EventSaved, Result: result})
		}

	case ws.ActionEdit, ws.ActionDelete:
		id, err := uuid.Parse(msg.ID)
		if err != nil {
			return client.SendError(response.GetMessage(response.ErrInvalidID))
		}
		if msg.Action == ws.ActionEdit {
			_, err = h.formService.BeginEdit(id)
		} else {
			err = h.formService.Delete(id)
		}
		if err != nil {
			return h.reportError(client, err)
		}

	case ws.ActionSetFilter:
		h.formService.SetFilter(model.Filter{Name: msg.Name, Division: msg.Division})

	case ws.ActionReset:
		h.formService.Reset()

	default:
		h.log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		return client.SendError("unknown action: " + string(msg.Action))
	}

	return nil
}

func (h *WSHandler) reportError(client *ws.Client, err error) error {
	code := response.ErrInternal
	switch {
	case errors.Is(err, service.ErrUnknownField):
		code = response.ErrUnknownField
	case errors.Is(err, repository.ErrRecordNotFound):
		code = response.ErrNotFound
	default:
		h.log.Error().Err(err).Msg("Form action failed")
	}
	return client.SendError(response.GetMessage(code))
}

// broadcastView runs under the session lock; Broadcast never blocks.
func (h *WSHandler) broadcastView(v service.View) {
	h.hub.Broadcast(ws.ViewResponse{Event: ws.EventView, View: v})
}
