package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/starpathlabs/constellation-backend/internal/http/response"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/realtime"
	"github.com/starpathlabs/constellation-backend/internal/realtime/bus"
	"github.com/starpathlabs/constellation-backend/internal/reset"
)

type AdminHandler struct {
	log          *logger.Logger
	resetService *reset.Service
	bus          bus.Bus
}

func NewAdminHandler(baseLog *logger.Logger, resetService *reset.Service, eventBus bus.Bus) *AdminHandler {
	return &AdminHandler{
		log:          baseLog.With("handler", "AdminHandler"),
		resetService: resetService,
		bus:          eventBus,
	}
}

// ResetUser wipes all workshop data for one user and notifies their open
// sessions to drop cached state.
func (ah *AdminHandler) ResetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_identifier", err)
		return
	}

	summary, err := ah.resetService.ResetAllUserData(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}

	if ah.bus != nil {
		events := []realtime.Message{
			{Channel: userID.String(), Event: realtime.EventUserDataCleared},
			{Channel: userID.String(), Event: realtime.EventWorkshopDataReset},
		}
		for _, msg := range events {
			if perr := ah.bus.Publish(c.Request.Context(), msg); perr != nil {
				ah.log.Warn("reset event publish failed",
					"event", string(msg.Event), "user_id", userID.String(), "error", perr.Error())
			}
		}
	}

	response.RespondOK(c, gin.H{
		"success":      true,
		"deleted_data": summary.Deleted,
	})
}
