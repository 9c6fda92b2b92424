package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/electroride/configurator/internal/configstore"
	"github.com/electroride/configurator/internal/models"
	"github.com/electroride/configurator/internal/scene"
	"github.com/electroride/configurator/internal/session"
)

// WebSocket message types for the live configuration protocol
const (
	// Client -> Server messages
	MsgTypePing         = "ping"
	MsgTypeConfigSet    = "config:set"
	MsgTypeConfigReset  = "config:reset"
	MsgTypeCameraPreset = "camera:preset"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypePong      = "pong"
	MsgTypeConfig    = "config"
	MsgTypeError     = "error"
)

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSConnectedPayload greets a client after the upgrade
type WSConnectedPayload struct {
	SessionID string `json:"sessionId"`
}

// WSConfigPayload is pushed once per store notification
type WSConfigPayload struct {
	Revision      uint64               `json:"revision"`
	Configuration models.Configuration `json:"configuration"`
	Scene         scene.Scene          `json:"scene"`
}

// WSCameraPresetPayload selects a camera preset by name
type WSCameraPresetPayload struct {
	Preset string `json:"preset"`
}

// WebSocket error response
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler pushes configuration updates to connected viewers and
// accepts edits from them
type WebSocketHandler struct {
	sessions       SessionManager
	strict         bool
	maxMessageSize int64
	logger         *zap.Logger
	upgrader       websocket.Upgrader
}

// NewWebSocketHandler creates a new live configuration handler.
// maxMessageSize is in bytes; zero leaves reads unlimited.
func NewWebSocketHandler(sessions SessionManager, strict bool, maxMessageSize int64, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		sessions:       sessions,
		strict:         strict,
		maxMessageSize: maxMessageSize,
		logger:         logger.Named("ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Origin is enforced by the CORS middleware
				return true
			},
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
		},
	}
}

// wsClient serializes writes to one connection.
type wsClient struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *wsClient) send(msg WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(msg)
}

// HandleWebSocket upgrades the connection for an unlocked session and runs
// the live configuration protocol until either side closes.
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	id := c.Param("id")
	state, err := wsh.sessions.Configurator(id)
	if err != nil {
		return toAPIError(err, id)
	}

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	if wsh.maxMessageSize > 0 {
		ws.SetReadLimit(wsh.maxMessageSize)
	}

	log := wsh.logger.With(zap.String("session_id", id))
	log.Info("client connected")

	client := &wsClient{ws: ws}
	store := state.Store()

	// A pending signal stands for every notification since the last push.
	dirty := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(models.Configuration) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	wsh.sendMessage(client, log, MsgTypeConnected, "", WSConnectedPayload{SessionID: id})
	cfg, rev := store.Snapshot()
	wsh.sendConfig(client, log, cfg, rev)

	stop := make(chan struct{})
	defer close(stop)
	go wsh.pushUpdates(client, log, store, rev, dirty, state.Done(), stop)

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection error", zap.Error(err))
			}
			break
		}
		wsh.sessions.Touch(id)
		wsh.handleMessage(client, log, state, msg)
	}

	log.Info("client disconnected")
	return nil
}

// pushUpdates sends the latest snapshot whenever the store changed since the
// last push, until the connection ends or the session goes away. Notifications
// that arrive while a send is in flight collapse into one config message.
func (wsh *WebSocketHandler) pushUpdates(client *wsClient, log *zap.Logger, store *configstore.Store, sent uint64, dirty <-chan struct{}, done <-chan struct{}, stop <-chan struct{}) {
	for {
		select {
		case <-dirty:
			cfg, rev := store.Snapshot()
			if rev == sent {
				continue
			}
			wsh.sendConfig(client, log, cfg, rev)
			sent = rev
		case <-done:
			wsh.sendError(client, log, "", "session closed", "SESSION_CLOSED")
			client.mu.Lock()
			_ = client.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
			client.mu.Unlock()
			client.ws.Close()
			return
		case <-stop:
			return
		}
	}
}

func (wsh *WebSocketHandler) handleMessage(client *wsClient, log *zap.Logger, state *session.State, msg WSMessage) {
	store := state.Store()
	switch msg.Type {
	case MsgTypePing:
		wsh.sendMessage(client, log, MsgTypePong, msg.ID, nil)
	case MsgTypeConfigSet:
		wsh.handleConfigSet(client, log, store, msg)
	case MsgTypeConfigReset:
		store.Reset()
	case MsgTypeCameraPreset:
		var payload WSCameraPresetPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			wsh.sendError(client, log, msg.ID, "Invalid camera payload: "+err.Error(), "INVALID_PAYLOAD")
			return
		}
		preset, ok := models.CameraPresetByName(payload.Preset)
		if !ok {
			wsh.sendError(client, log, msg.ID, "Unknown camera preset: "+payload.Preset, "NOT_FOUND")
			return
		}
		store.SetCameraPosition(preset.Position)
	default:
		wsh.sendError(client, log, msg.ID, "Unknown message type: "+msg.Type, "INVALID_TYPE")
	}
}

// handleConfigSet applies a patch; the resulting config message is the reply.
func (wsh *WebSocketHandler) handleConfigSet(client *wsClient, log *zap.Logger, store *configstore.Store, msg WSMessage) {
	var patch models.Patch
	dec := json.NewDecoder(bytes.NewReader(msg.Payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		wsh.sendError(client, log, msg.ID, "Invalid config payload: "+err.Error(), "INVALID_PAYLOAD")
		return
	}
	if err := checkPatch(&patch, wsh.strict); err != nil {
		apiErr := toAPIError(err, "")
		message := apiErr.Message
		if apiErr.Details != "" {
			message += ": " + apiErr.Details
		}
		wsh.sendError(client, log, msg.ID, message, apiErr.Code)
		return
	}
	store.Set(patch)
}

// Helper methods

func (wsh *WebSocketHandler) sendConfig(client *wsClient, log *zap.Logger, cfg models.Configuration, revision uint64) {
	wsh.sendMessage(client, log, MsgTypeConfig, "", WSConfigPayload{
		Revision:      revision,
		Configuration: cfg,
		Scene:         scene.Compose(cfg),
	})
}

func (wsh *WebSocketHandler) sendMessage(client *wsClient, log *zap.Logger, msgType, id string, payload interface{}) {
	msg := WSMessage{Type: msgType, ID: id, Timestamp: time.Now().UnixMilli()}
	if payload != nil {
		msg.Payload = mustJSON(payload)
	}
	if err := client.send(msg); err != nil {
		log.Debug("failed to send message", zap.String("type", msgType), zap.Error(err))
	}
}

func (wsh *WebSocketHandler) sendError(client *wsClient, log *zap.Logger, id, message, code string) {
	wsh.sendMessage(client, log, MsgTypeError, id, WSErrorResponse{Message: message, Code: code})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
