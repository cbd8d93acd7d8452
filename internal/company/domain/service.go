package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type SignupRequest struct {
	CompanyName string `json:"company_name"`
	AdminName   string `json:"admin_name"`
	AdminEmail  string `json:"admin_email"`
	Password    string `json:"password"`
}

type SignupResponse struct {
	Company Company `json:"company"`
	Admin   User    `json:"admin"`
}

type AddUserRequest struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

// Service provisions tenants. Signup is atomic: either the company and its
// admin user both exist afterwards, or neither does.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (SignupResponse, error)
	Get(ctx context.Context) (Company, error)
	Suspend(ctx context.Context) (Company, error)
	Reactivate(ctx context.Context) (Company, error)
	AddUser(ctx context.Context, req AddUserRequest) (User, error)
	DeactivateUser(ctx context.Context, id snowflake.ID) (User, error)
}
