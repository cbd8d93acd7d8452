package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/hrplane/hrplane/internal/clock"
	"github.com/hrplane/hrplane/internal/company/domain"
	"github.com/hrplane/hrplane/internal/company/repository"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Company{}, &domain.User{}))

	genID, err := snowflake.NewNode(3)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: genID,
		Clock: clock.NewFakeClock(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestSignup(t *testing.T) {
	svc, db := setup(t)

	resp, err := svc.Signup(context.Background(), domain.SignupRequest{
		CompanyName: "Acme Rockets Ltd",
		AdminName:   "Jo Admin",
		AdminEmail:  "Jo@Acme.example",
		Password:    "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "acme-rockets-ltd", resp.Company.Slug)
	assert.Equal(t, domain.CompanyStatusActive, resp.Company.Status)
	assert.Equal(t, resp.Company.ID, resp.Admin.CompanyID)
	assert.Equal(t, domain.UserRoleAdmin, resp.Admin.Role)
	assert.Equal(t, "jo@acme.example", resp.Admin.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword(resp.Admin.PasswordHash, []byte("correct horse")))

	t.Run("duplicate email rolls back company", func(t *testing.T) {
		_, err := svc.Signup(context.Background(), domain.SignupRequest{
			CompanyName: "Other Corp",
			AdminName:   "Jo Again",
			AdminEmail:  "jo@acme.example",
			Password:    "different pw",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

		var companies int64
		require.NoError(t, db.Model(&domain.Company{}).Count(&companies).Error)
		assert.EqualValues(t, 1, companies, "failed signup must not leave a company behind")
	})

	t.Run("duplicate company name rejected", func(t *testing.T) {
		_, err := svc.Signup(context.Background(), domain.SignupRequest{
			CompanyName: "Acme Rockets Ltd",
			AdminName:   "Someone Else",
			AdminEmail:  "else@acme.example",
			Password:    "another pw",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateCompany)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Signup(context.Background(), domain.SignupRequest{
			AdminName:  "No Company",
			AdminEmail: "x@example.com",
			Password:   "long enough",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Signup(context.Background(), domain.SignupRequest{
			CompanyName: "Short PW Inc",
			AdminName:   "X",
			AdminEmail:  "short@example.com",
			Password:    "short",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCompanyLifecycle(t *testing.T) {
	svc, _ := setup(t)

	resp, err := svc.Signup(context.Background(), domain.SignupRequest{
		CompanyName: "Lifecycle Co",
		AdminName:   "Admin",
		AdminEmail:  "admin@lifecycle.example",
		Password:    "long enough",
	})
	require.NoError(t, err)

	ctx := tenantctx.WithCompanyID(context.Background(), int64(resp.Company.ID))

	suspended, err := svc.Suspend(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CompanyStatusSuspended, suspended.Status)

	reactivated, err := svc.Reactivate(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CompanyStatusActive, reactivated.Status)

	t.Run("users", func(t *testing.T) {
		user, err := svc.AddUser(ctx, domain.AddUserRequest{
			Email:    "member@lifecycle.example",
			Name:     "Member",
			Password: "long enough",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.UserRoleMember, user.Role)
		assert.True(t, user.IsActive)

		_, err = svc.AddUser(ctx, domain.AddUserRequest{
			Email:    "member@lifecycle.example",
			Name:     "Member Again",
			Password: "long enough",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

		deactivated, err := svc.DeactivateUser(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, deactivated.IsActive)
	})

	t.Run("missing tenant", func(t *testing.T) {
		_, err := svc.Get(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidCompany)
	})
}
