package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/http/response"
	"github.com/starpathlabs/constellation-backend/internal/platform/ctxutil"
)

type NoteHandler struct {
	notes repos.BetaNoteRepo
}

func NewNoteHandler(notes repos.BetaNoteRepo) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func (nh *NoteHandler) Submit(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		Workshop string `json:"workshop"`
		StepID   string `json:"step_id"`
		Note     string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Note) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("note text is required"))
		return
	}
	row, err := nh.notes.Create(c.Request.Context(), nil, &types.BetaNote{
		ID:       uuid.New(),
		UserID:   rd.UserID,
		Workshop: strings.TrimSpace(req.Workshop),
		StepID:   strings.TrimSpace(req.StepID),
		Note:     strings.TrimSpace(req.Note),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, row)
}
