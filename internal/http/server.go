package http

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	if os.Getenv("GIN_MODE") == "" {
		switch strings.ToLower(os.Getenv("LOG_MODE")) {
		case "prod", "production":
			gin.SetMode(gin.ReleaseMode)
		}
	}
	return &Server{Engine: NewRouter(cfg)}
}

func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}
