package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/hrplane/hrplane/internal/companybilling/domain"
)

func (s *Server) AssignPlan(c *gin.Context) {
	var req billingdomain.AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	billing, err := s.billingSvc.AssignPlan(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, billing)
}

func (s *Server) GetBilling(c *gin.Context) {
	billing, err := s.billingSvc.GetBilling(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, billing)
}

func (s *Server) RefreshBillingCounts(c *gin.Context) {
	billing, err := s.billingSvc.RefreshCounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, billing)
}

func (s *Server) GenerateInvoice(c *gin.Context) {
	var req billingdomain.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.billingSvc.GenerateInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

func (s *Server) ListInvoices(c *gin.Context) {
	var filter billingdomain.ListInvoicesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	invoice, err := s.billingSvc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (s *Server) PayInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	invoice, err := s.billingSvc.MarkPaid(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (s *Server) CancelInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	invoice, err := s.billingSvc.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (s *Server) DownloadInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	reader, err := s.billingSvc.InvoicePDF(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	streamPDF(c, fmt.Sprintf("invoice-%s.pdf", id.String()), reader)
}
