package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/playtoearn/coinserver/internal/api/request"
	"github.com/playtoearn/coinserver/internal/api/response"
	"github.com/playtoearn/coinserver/internal/commands"
	"github.com/playtoearn/coinserver/internal/idle"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/roster"
)

// EventHandler ingests connection and activity events from the hosting
// game server
type EventHandler struct {
	// baseCtx scopes background registration work to the process
	// lifetime rather than the ingest request
	baseCtx context.Context
	roster  *roster.Tracker
	idles   *idle.Tracker
	mailbox *commands.Mailbox
}

// NewEventHandler creates a new event handler
func NewEventHandler(baseCtx context.Context, rst *roster.Tracker, idles *idle.Tracker, mailbox *commands.Mailbox) *EventHandler {
	return &EventHandler{
		baseCtx: baseCtx,
		roster:  rst,
		idles:   idles,
		mailbox: mailbox,
	}
}

// Join handles POST /api/v1/events/join
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	h.roster.Join(h.baseCtx, model.Player{
		ID:          model.PlayerID(req.PlayerID),
		DisplayName: req.DisplayName,
	})

	response.JSON(w, http.StatusAccepted, response.Accepted())
}

// Leave handles POST /api/v1/events/leave
func (h *EventHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req request.LeaveEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	id := model.PlayerID(req.PlayerID)
	h.roster.Leave(id)
	h.idles.Clear(id)
	h.mailbox.Discard(id)

	response.NoContent(w)
}

// Idle handles POST /api/v1/events/idle
func (h *EventHandler) Idle(w http.ResponseWriter, r *http.Request) {
	var req request.IdleEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}
	if req.Category == "" {
		WriteError(w, NewInvalidRequestError("category is required"))
		return
	}

	h.idles.SetInactive(model.PlayerID(req.PlayerID), req.Category, req.Inactive)

	response.NoContent(w)
}

// Roster handles GET /api/v1/players
func (h *EventHandler) Roster(w http.ResponseWriter, r *http.Request) {
	members := h.roster.Members()

	out := response.Roster{Players: make([]response.RosterPlayer, 0, len(members))}
	for _, p := range members {
		out.Players = append(out.Players, response.RosterPlayer{
			ID:          string(p.ID),
			DisplayName: p.DisplayName,
			Idle:        h.idles.IsIdle(p.ID),
		})
	}

	response.JSON(w, http.StatusOK, out)
}
