package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/starpathlabs/constellation-backend/internal/clients/imagesearch"
	"github.com/starpathlabs/constellation-backend/internal/http/response"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
)

type ImageHandler struct {
	search imagesearch.Client
}

func NewImageHandler(search imagesearch.Client) *ImageHandler {
	return &ImageHandler{search: search}
}

// Search proxies the image provider for the future-self visualization step.
func (ih *ImageHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("query parameter q is required"))
		return
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))

	images, err := ih.search.Search(c.Request.Context(), query, perPage)
	if err != nil {
		response.RespondAPIError(c, apierr.Upstream(err))
		return
	}
	response.RespondOK(c, gin.H{"images": images})
}
