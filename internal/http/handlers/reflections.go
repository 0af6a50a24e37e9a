package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starpathlabs/constellation-backend/internal/http/response"
	"github.com/starpathlabs/constellation-backend/internal/platform/ctxutil"
	"github.com/starpathlabs/constellation-backend/internal/reflection"
)

type ReflectionHandler struct {
	reflectionService *reflection.Service
}

func NewReflectionHandler(reflectionService *reflection.Service) *ReflectionHandler {
	return &ReflectionHandler{reflectionService: reflectionService}
}

func (rh *ReflectionHandler) GetSet(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	view, err := rh.reflectionService.GetOrInitSet(c.Request.Context(), rd.UserID, c.Param("setId"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

func (rh *ReflectionHandler) Save(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		Response string `json:"response"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := rh.reflectionService.Save(c.Request.Context(), rd.UserID, c.Param("setId"), c.Param("itemId"), req.Response)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, row)
}

func (rh *ReflectionHandler) Complete(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	view, err := rh.reflectionService.Complete(c.Request.Context(), rd.UserID, c.Param("setId"), c.Param("itemId"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}
