// Package livepreview streams rendered trees to editors over a websocket
// and runs their drag-reorder gestures.
package livepreview

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/dragdrop"
	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/preview"
	"github.com/ziadkadry99/menu-studio/internal/render"
	"github.com/ziadkadry99/menu-studio/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client message types.
const (
	MsgView         = "view"
	MsgDragSection  = "drag_section"
	MsgDragItem     = "drag_item"
	MsgEnterSection = "enter_section"
	MsgEnterItem    = "enter_item"
	MsgDrop         = "drop"
	MsgCancel       = "cancel"
)

// Server message types.
const (
	MsgTree  = "tree"
	MsgError = "error"
)

// ClientMessage is what an editor sends. Section and Item address the
// dragged or hovered row; Origin is "handle" (default), "input" or
// "button".
type ClientMessage struct {
	Type    string           `json:"type"`
	View    *preview.Request `json:"view,omitempty"`
	Section int              `json:"section"`
	Item    int              `json:"item"`
	Origin  string           `json:"origin,omitempty"`
}

// ServerMessage carries a tree, or an error for the last client message.
type ServerMessage struct {
	Type  string           `json:"type"`
	View  *preview.Request `json:"view,omitempty"`
	Drag  *dragdrop.State  `json:"drag,omitempty"`
	Tree  *render.Node     `json:"tree,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Hub serves /ws/preview.
type Hub struct {
	sess     *session.Session
	view     preview.Request
	activity audit.Logger
	logger   zerolog.Logger
}

// New creates a hub. view is the initial view of new connections; query
// parameters override it like on /api/preview. Committed drops are
// recorded on activity, which may be nil.
func New(sess *session.Session, view preview.Request, activity audit.Logger, logger zerolog.Logger) *Hub {
	return &Hub{sess: sess, view: view, activity: activity, logger: logger}
}

// RegisterRoutes mounts the websocket route. Mount it outside request
// timeouts.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/ws/preview", h.handleWebSocket)
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	view, err := preview.FromQuery(r.URL.Query(), h.view)
	if err != nil {
		http.Error(w, `{"error":"invalid preview parameters"}`, http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	updates, cancel := h.sess.Subscribe()
	defer cancel()

	c := &client{
		hub:  h,
		conn: conn,
		view: view,
		drag: dragdrop.New(h.sess.Mutator(), h.sess.State()),
		log:  h.logger.With().Str("remote", r.RemoteAddr).Logger(),
	}
	c.log.Debug().Msg("preview client connected")

	in := make(chan ClientMessage)
	done := make(chan struct{})
	defer close(done)
	go c.readLoop(in, done)

	c.sendTree()
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				c.log.Debug().Msg("preview client disconnected")
				return
			}
			c.handle(r, msg)
		case st, ok := <-updates:
			if !ok {
				return
			}
			c.drag.Reset(st)
			c.sendTree()
		}
	}
}

// client is one connection. Only the handler goroutine writes to conn or
// touches drag.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	view preview.Request
	drag *dragdrop.Controller
	log  zerolog.Logger
}

func (c *client) readLoop(in chan<- ClientMessage, done <-chan struct{}) {
	defer close(in)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			msg = ClientMessage{Type: "invalid"}
		}
		select {
		case in <- msg:
		case <-done:
			return
		}
	}
}

func origin(s string) dragdrop.Origin {
	switch s {
	case "input":
		return dragdrop.OriginTextInput
	case "button":
		return dragdrop.OriginButton
	}
	return dragdrop.OriginHandle
}

func (c *client) handle(r *http.Request, msg ClientMessage) {
	switch msg.Type {
	case MsgView:
		if msg.View == nil {
			c.sendError("view is required")
			return
		}
		if err := msg.View.Validate(c.drag.Preview().Menu); err != nil {
			c.sendError(err.Error())
			return
		}
		c.view = *msg.View
		c.sendTree()
	case MsgDragSection:
		if !c.drag.BeginSection(msg.Section, origin(msg.Origin)) {
			c.sendError("drag refused")
			return
		}
		c.sendTree()
	case MsgDragItem:
		if !c.drag.BeginItem(msg.Section, msg.Item, origin(msg.Origin)) {
			c.sendError("drag refused")
			return
		}
		c.sendTree()
	case MsgEnterSection:
		if c.drag.EnterSection(msg.Section) {
			c.sendTree()
		}
	case MsgEnterItem:
		if c.drag.EnterItem(msg.Section, msg.Item) {
			c.sendTree()
		}
	case MsgDrop:
		at, base := c.drag.State(), c.drag.Base()
		out, moved := c.drag.Drop()
		if !moved {
			c.sendTree()
			return
		}
		// The session echoes the committed state back through updates.
		cur, err := c.hub.sess.ApplyOn(r.Context(), base, func(menu.AppState) menu.AppState { return out })
		if errors.Is(err, session.ErrStale) {
			c.drag.Reset(cur)
			c.sendError("menu changed during the drag; drop discarded")
			c.sendTree()
			return
		}
		if err != nil {
			c.log.Warn().Err(err).Msg("persisting drop")
		}
		audit.Record(r.Context(), c.hub.activity, reorderEntry(at), c.log)
	case MsgCancel:
		c.drag.Cancel()
		c.sendTree()
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

func reorderEntry(at dragdrop.State) audit.Entry {
	e := audit.Entry{Source: audit.SourcePreview, Action: audit.ActionReorder}
	if at.Phase == dragdrop.DraggingItem {
		e.Target = fmt.Sprintf("section %d item %d", at.Section, at.Item)
		e.Summary = "Moved an item to " + e.Target
	} else {
		e.Target = fmt.Sprintf("section %d", at.Section)
		e.Summary = "Moved a section to position " + strconv.Itoa(at.Section)
	}
	return e
}

func (c *client) sendTree() {
	st := c.drag.Preview()
	tree, err := preview.Render(st, c.view)
	if err != nil && c.view.Slide.Kind == render.SlideSection {
		// The viewed section is gone; fall back to the cover.
		c.view.Slide = render.Slide{Kind: render.SlideCover}
		tree, err = preview.Render(st, c.view)
	}
	if err != nil {
		c.sendError(err.Error())
		return
	}
	view, drag := c.view, c.drag.State()
	c.write(ServerMessage{Type: MsgTree, View: &view, Drag: &drag, Tree: tree})
}

func (c *client) sendError(msg string) {
	c.write(ServerMessage{Type: MsgError, Error: msg})
}

func (c *client) write(m ServerMessage) {
	if err := c.conn.WriteJSON(m); err != nil {
		c.log.Warn().Err(err).Msg("websocket write")
	}
}
