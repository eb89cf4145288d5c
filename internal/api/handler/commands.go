package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playtoearn/coinserver/internal/api/request"
	"github.com/playtoearn/coinserver/internal/api/response"
	"github.com/playtoearn/coinserver/internal/commands"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/roster"
)

// CommandHandler exposes the wallet and balance commands over the
// ingest API
type CommandHandler struct {
	commands *commands.Handler
	roster   *roster.Tracker
	mailbox  *commands.Mailbox
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(cmds *commands.Handler, rst *roster.Tracker, mailbox *commands.Mailbox) *CommandHandler {
	return &CommandHandler{
		commands: cmds,
		roster:   rst,
		mailbox:  mailbox,
	}
}

// Wallet handles POST /api/v1/commands/wallet
func (h *CommandHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	var req request.WalletCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	id := model.PlayerID(req.PlayerID)
	if !h.roster.Contains(id) {
		WriteError(w, NewPlayerUnknownError())
		return
	}

	if err := h.commands.SetWallet(id, req.Address); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Accepted())
}

// Balance handles POST /api/v1/commands/balance
func (h *CommandHandler) Balance(w http.ResponseWriter, r *http.Request) {
	var req request.BalanceCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	id := model.PlayerID(req.PlayerID)
	if !h.roster.Contains(id) {
		WriteError(w, NewPlayerUnknownError())
		return
	}

	h.commands.Balance(id)

	response.JSON(w, http.StatusAccepted, response.Accepted())
}

// Messages handles GET /api/v1/players/{player_id}/messages, draining
// the player's pending command results
func (h *CommandHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["player_id"])

	msgs := h.mailbox.Drain(id)
	if msgs == nil {
		msgs = []commands.Message{}
	}

	response.JSON(w, http.StatusOK, response.Messages{Messages: msgs})
}
