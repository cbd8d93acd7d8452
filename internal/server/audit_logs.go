package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/hrplane/hrplane/internal/audit/domain"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	var filter auditdomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
