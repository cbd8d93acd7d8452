package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	employeedomain "github.com/hrplane/hrplane/internal/employee/domain"
)

func (s *Server) CreateEmployee(c *gin.Context) {
	var req employeedomain.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	employee, err := s.employeeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (s *Server) GetEmployee(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	employee, err := s.employeeSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (s *Server) ListEmployees(c *gin.Context) {
	var filter employeedomain.ListEmployeesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.employeeSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateEmployeeSalary(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req employeedomain.UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	employee, err := s.employeeSvc.UpdateSalary(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (s *Server) DeactivateEmployee(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	employee, err := s.employeeSvc.Deactivate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (s *Server) GetEmployeeBankAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	account, err := s.employeeSvc.BankAccount(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}
