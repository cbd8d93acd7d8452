package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/pkg/db/pagination"
)

type CreateEmployeeRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`

	BasicSalary      string `json:"basic_salary"`
	HRA              string `json:"hra"`
	SpecialAllowance string `json:"special_allowance"`
	OtherAllowances  string `json:"other_allowances"`

	BankAccount string    `json:"bank_account"`
	JoinDate    time.Time `json:"join_date"`
}

type UpdateSalaryRequest struct {
	BasicSalary      string `json:"basic_salary"`
	HRA              string `json:"hra"`
	SpecialAllowance string `json:"special_allowance"`
	OtherAllowances  string `json:"other_allowances"`
}

type ListEmployeesFilter struct {
	IncludeInactive bool `form:"include_inactive"`
	pagination.Pagination
}

type ListEmployeesResponse struct {
	Employees []Employee          `json:"employees"`
	PageInfo  pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	Get(ctx context.Context, id snowflake.ID) (Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) (ListEmployeesResponse, error)
	UpdateSalary(ctx context.Context, id snowflake.ID, req UpdateSalaryRequest) (Employee, error)
	Deactivate(ctx context.Context, id snowflake.ID) (Employee, error)
	BankAccount(ctx context.Context, id snowflake.ID) (string, error)
}
