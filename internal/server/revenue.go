package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetRevenueSummary(c *gin.Context) {
	summary, err := s.revenueSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
