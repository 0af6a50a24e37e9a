package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starpathlabs/constellation-backend/internal/http/response"
	"github.com/starpathlabs/constellation-backend/internal/platform/ctxutil"
	"github.com/starpathlabs/constellation-backend/internal/workshop"
)

type WorkshopHandler struct {
	workshopService *workshop.Service
}

func NewWorkshopHandler(workshopService *workshop.Service) *WorkshopHandler {
	return &WorkshopHandler{workshopService: workshopService}
}

func (wh *WorkshopHandler) Navigation(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	nav, err := wh.workshopService.Navigation(c.Request.Context(), rd.UserID, c.Param("workshop"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, nav)
}

func (wh *WorkshopHandler) GetStep(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	row, err := wh.workshopService.GetStep(c.Request.Context(), rd.UserID, c.Param("workshop"), c.Param("stepId"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if row == nil {
		response.RespondOK(c, gin.H{"data": nil})
		return
	}
	response.RespondOK(c, row)
}

func (wh *WorkshopHandler) SaveStep(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := wh.workshopService.SaveStep(c.Request.Context(), rd.UserID, c.Param("workshop"), c.Param("stepId"), req.Data)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, row)
}

func (wh *WorkshopHandler) CompleteStep(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	nav, err := wh.workshopService.CompleteStep(c.Request.Context(), rd.UserID, c.Param("workshop"), c.Param("stepId"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, nav)
}

func (wh *WorkshopHandler) SubmitAssessment(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		AssessmentType string          `json:"assessmentType"`
		Results        json.RawMessage `json:"results"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := wh.workshopService.SubmitAssessment(c.Request.Context(), rd.UserID, req.AssessmentType, req.Results)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, row)
}
