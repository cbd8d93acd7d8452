package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListAddonCatalog(c *gin.Context) {
	addons, err := s.addonSvc.Catalog(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"addons": addons})
}

func (s *Server) ListActiveAddons(c *gin.Context) {
	addons, err := s.addonSvc.ListActive(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"addons": addons})
}

func (s *Server) ActivateAddon(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	addon, err := s.addonSvc.Activate(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addon)
}

func (s *Server) CancelAddon(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	addon, err := s.addonSvc.Cancel(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, addon)
}
