package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/starpathlabs/constellation-backend/internal/coach"
	"github.com/starpathlabs/constellation-backend/internal/http/response"
	"github.com/starpathlabs/constellation-backend/internal/platform/ctxutil"
)

type CoachHandler struct {
	coachService *coach.Service
}

func NewCoachHandler(coachService *coach.Service) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

func (ch *CoachHandler) SendMessage(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		ConversationID string `json:"conversation_id"`
		Workshop       string `json:"workshop"`
		Message        string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var conversationID *uuid.UUID
	if strings.TrimSpace(req.ConversationID) != "" {
		id, err := uuid.Parse(req.ConversationID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_identifier", err)
			return
		}
		conversationID = &id
	}

	reply, err := ch.coachService.SendMessage(c.Request.Context(), rd.UserID, conversationID, req.Workshop, req.Message)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, reply)
}
