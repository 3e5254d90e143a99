package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"vivaah_server/middleware"
	"vivaah_server/models"
	"vivaah_server/services"
	"vivaah_server/utils"
)

// InviteController handles HTTP requests for invitation-related actions
type InviteController struct {
	InviteService *services.InviteService
	Logger        *slog.Logger
}

// NewInviteController creates a new instance of InviteController
func NewInviteController(inviteService *services.InviteService, logger *slog.Logger) *InviteController {
	return &InviteController{InviteService: inviteService, Logger: loggerOrDefault(logger)}
}

// **1️⃣ Send an invitation**
func (c *InviteController) CreateInviteHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReceiverID string `json:"receiverId"`
		Message    string `json:"message"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, "create invitation", err)
		return
	}

	invite, err := c.InviteService.CreateInvitation(r.Context(), middleware.CallerFromContext(r.Context()), body.ReceiverID, body.Message)
	if err != nil {
		respondError(w, r, c.Logger, "create invitation", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"message":    "Invitation sent successfully",
		"invitation": invite,
	})
}

// **2️⃣ List sent and received invitations**
func (c *InviteController) GetInvitesHandler(w http.ResponseWriter, r *http.Request) {
	listing, err := c.InviteService.ListInvitations(r.Context(), middleware.CallerFromContext(r.Context()))
	if err != nil {
		respondError(w, r, c.Logger, "list invitations", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":     "Invitations fetched successfully",
		"invitations": listing.Invitations,
		"counts":      listing.Counts,
	})
}

// **3️⃣ List accepted connections**
func (c *InviteController) GetConnectionsHandler(w http.ResponseWriter, r *http.Request) {
	connections, err := c.InviteService.ListConnections(r.Context(), middleware.CallerFromContext(r.Context()))
	if err != nil {
		respondError(w, r, c.Logger, "list connections", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":     "Connections fetched successfully",
		"connections": connections,
	})
}

// **4️⃣ Accept/Decline an invitation**
func (c *InviteController) UpdateInviteStatusHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.InvitationStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, "update invitation", err)
		return
	}

	invite, err := c.InviteService.UpdateInvitationStatus(r.Context(), middleware.CallerFromContext(r.Context()), mux.Vars(r)["id"], body.Status)
	if err != nil {
		respondError(w, r, c.Logger, "update invitation", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":    "Invitation " + string(invite.Status),
		"invitation": invite,
	})
}
