package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"hvac_simulator/internal/dashboard"
	"hvac_simulator/internal/simulator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and routes messages to the engine.
type Handler struct {
	hub    *Hub
	engine *simulator.Engine
	log    zerolog.Logger
}

func NewHandler(hub *Hub, engine *simulator.Engine) *Handler {
	return &Handler{
		hub:    hub,
		engine: engine,
		log:    hub.log.With().Str("component", "ws_handler").Logger(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := newClient(h.hub, conn, r.RemoteAddr)

	h.hub.Register(client)
	go client.writePump()

	// Initial snapshot: state, environment table, then the full view.
	h.sendSimState(client)
	h.sendEnvData(client)
	h.sendDashboardView(client)

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		h.handleMessage(msg)
	}
}

func (h *Handler) handleMessage(msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.log.Warn().Err(err).Msg("invalid message")
		return
	}

	// Payloads are decoded onto the current values, so omitted fields are kept.
	switch env.Type {
	case TypeParamsSet:
		p := ParamsFromModel(h.engine.State().Parameters)
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.log.Warn().Err(err).Msg("invalid params:set payload")
			return
		}
		h.engine.SetParameters(p.ToModel())
		h.broadcastDashboardView()

	case TypeAgentConfig:
		p := AgentConfigFromModel(h.engine.State().Hyperparameters)
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.log.Warn().Err(err).Msg("invalid agent:config payload")
			return
		}
		h.engine.SetHyperparameters(p.ToModel())

	case TypeDisplaySet:
		p := DisplayFromModel(h.engine.State().Display)
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.log.Warn().Err(err).Msg("invalid display:set payload")
			return
		}
		h.engine.SetDisplay(p.ToModel())
		h.broadcastDashboardView()

	case TypeAgentTrain:
		h.engine.Train()
		h.broadcastDashboardView()

	default:
		h.log.Warn().Str("type", env.Type).Msg("unknown message type")
	}
}

func (h *Handler) broadcastDashboardView() {
	msg, err := NewEnvelope(TypeDashboardView, dashboard.FromEngine(h.engine))
	if err != nil {
		h.log.Error().Err(err).Msg("creating dashboard:view message")
		return
	}
	h.hub.Broadcast(msg)
}

func (h *Handler) sendDashboardView(c *Client) {
	h.send(c, TypeDashboardView, dashboard.FromEngine(h.engine))
}

func (h *Handler) sendEnvData(c *Client) {
	state := h.engine.State()
	h.send(c, TypeEnvData, EnvDataFromRows(state.Parameters, h.engine.Environment()))
}

func (h *Handler) sendSimState(c *Client) {
	h.send(c, TypeSimState, SimStateFromEngine(h.engine.State()))
}

func (h *Handler) send(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		h.log.Error().Err(err).Str("type", msgType).Msg("marshaling message")
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
