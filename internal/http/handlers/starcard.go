package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/starpathlabs/constellation-backend/internal/http/response"
	"github.com/starpathlabs/constellation-backend/internal/platform/ctxutil"
	"github.com/starpathlabs/constellation-backend/internal/starcard"
)

type StarCardHandler struct {
	starCardService *starcard.Service
}

func NewStarCardHandler(starCardService *starcard.Service) *StarCardHandler {
	return &StarCardHandler{starCardService: starCardService}
}

// GetPNG renders the card for the target user. Participants can only fetch
// their own card; admins can fetch anyone's.
func (sh *StarCardHandler) GetPNG(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_identifier", err)
		return
	}
	if targetID != rd.UserID && !rd.IsAdmin {
		response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("cannot access another user's star card"))
		return
	}

	buf, err := sh.starCardService.Generate(c.Request.Context(), targetID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
