package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	addondomain "github.com/hrplane/hrplane/internal/addon/domain"
	auditdomain "github.com/hrplane/hrplane/internal/audit/domain"
	plandomain "github.com/hrplane/hrplane/internal/billingplan/domain"
	companydomain "github.com/hrplane/hrplane/internal/company/domain"
	billingdomain "github.com/hrplane/hrplane/internal/companybilling/domain"
	employeedomain "github.com/hrplane/hrplane/internal/employee/domain"
	payrolldomain "github.com/hrplane/hrplane/internal/payroll/domain"
	revenuedomain "github.com/hrplane/hrplane/internal/revenue/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isCompanyScopeError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   "company_id",
					Code:    "invalid_company",
					Message: "missing or invalid company",
				},
			},
		}
	}

	if isValidationError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   "request",
					Code:    "invalid_input",
					Message: err.Error(),
				},
			},
		}
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isCompanyScopeError(err error) bool {
	switch {
	case errors.Is(err, companydomain.ErrInvalidCompany),
		errors.Is(err, employeedomain.ErrInvalidCompany),
		errors.Is(err, payrolldomain.ErrInvalidCompany),
		errors.Is(err, billingdomain.ErrInvalidCompany),
		errors.Is(err, addondomain.ErrInvalidCompany),
		errors.Is(err, auditdomain.ErrInvalidCompany):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, companydomain.ErrInvalidInput),
		errors.Is(err, employeedomain.ErrInvalidInput),
		errors.Is(err, payrolldomain.ErrInvalidInput),
		errors.Is(err, billingdomain.ErrInvalidInput),
		errors.Is(err, addondomain.ErrInvalidInput),
		errors.Is(err, plandomain.ErrInvalidInput),
		errors.Is(err, revenuedomain.ErrInvalidInput):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, companydomain.ErrCompanyNotFound),
		errors.Is(err, employeedomain.ErrEmployeeNotFound),
		errors.Is(err, payrolldomain.ErrRecordNotFound),
		errors.Is(err, billingdomain.ErrBillingNotFound),
		errors.Is(err, billingdomain.ErrInvoiceNotFound),
		errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, addondomain.ErrAddonNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, companydomain.ErrDuplicateCompany),
		errors.Is(err, companydomain.ErrDuplicateEmail),
		errors.Is(err, employeedomain.ErrDuplicateCode),
		errors.Is(err, employeedomain.ErrEmployeeInactive),
		errors.Is(err, plandomain.ErrDuplicateTier),
		errors.Is(err, billingdomain.ErrDuplicateInvoice),
		errors.Is(err, billingdomain.ErrInvalidTransition),
		errors.Is(err, billingdomain.ErrPlanNotAssignable),
		errors.Is(err, addondomain.ErrAlreadyActivated),
		errors.Is(err, addondomain.ErrNotActive),
		errors.Is(err, payrolldomain.ErrDuplicatePeriod),
		errors.Is(err, payrolldomain.ErrImmutableRecord),
		errors.Is(err, payrolldomain.ErrInvalidTransition),
		errors.Is(err, payrolldomain.ErrRunInProgress):
		return true
	default:
		return false
	}
}
