package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	payrolldomain "github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/hrplane/hrplane/pkg/db/pagination"
)

type listPayrollRecordsQuery struct {
	PageToken   string `form:"page_token"`
	PageSize    int    `form:"page_size"`
	PeriodMonth int    `form:"period_month"`
	PeriodYear  int    `form:"period_year"`
	EmployeeID  string `form:"employee_id"`
	Status      string `form:"status"`
}

type transitionPayrollRequest struct {
	Status string `json:"status"`
}

func (s *Server) RunPayroll(c *gin.Context) {
	var req payrolldomain.RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.payrollSvc.RunPayroll(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) GetPayrollRecord(c *gin.Context) {
	record, err := s.payrollSvc.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) ListPayrollRecords(c *gin.Context) {
	var query listPayrollRecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.payrollSvc.ListRecords(c.Request.Context(), payrolldomain.ListRecordsRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(query.PageToken),
			PageSize:  query.PageSize,
		},
		PeriodMonth: query.PeriodMonth,
		PeriodYear:  query.PeriodYear,
		EmployeeID:  strings.TrimSpace(query.EmployeeID),
		Status:      strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) AddPayrollAdjustment(c *gin.Context) {
	var req payrolldomain.AddAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.payrollSvc.AddAdjustment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) TransitionPayrollStatus(c *gin.Context) {
	var req transitionPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	next := payrolldomain.PayrollStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if next == "" {
		AbortWithError(c, newValidationError("status", "invalid_status", "status is required"))
		return
	}

	record, err := s.payrollSvc.TransitionStatus(c.Request.Context(), c.Param("id"), next)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) DownloadPayslip(c *gin.Context) {
	recordID := c.Param("id")
	reader, err := s.payrollSvc.Payslip(c.Request.Context(), recordID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	streamPDF(c, fmt.Sprintf("payslip-%s.pdf", recordID), reader)
}
