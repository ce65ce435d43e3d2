package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobportal/recruitment/internal/auth"
	"github.com/jobportal/recruitment/internal/models"
)

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	db := openServiceTestDB(t)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	admin := models.User{Name: "Admin", Email: "admin@portal.example", Role: models.RoleAdmin, PasswordHash: hash}
	require.NoError(t, db.Create(&admin).Error)

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)
	svc, err := NewAuthService(db, jwtSvc)
	require.NoError(t, err)

	result, err := svc.Login(ctx, " Admin@Portal.example ", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "bearer", result.TokenType)
	require.Equal(t, admin.ID, result.User.ID)

	claims, err := jwtSvc.Validate(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, admin.ID, claims.UserID)
	require.Equal(t, "admin", claims.Role)

	_, err = svc.Login(ctx, "admin@portal.example", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@portal.example", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.CurrentUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, "admin@portal.example", user.Email)
}

func TestAgencyServiceCreateAndList(t *testing.T) {
	ctx := context.Background()
	svc, err := NewAgencyService(openServiceTestDB(t))
	require.NoError(t, err)

	agency, err := svc.Create(ctx, CreateAgencyInput{Name: "Coast Hires", ContactEmail: "Jobs@Coast.example", Phone: strPtr("0112345678")})
	require.NoError(t, err)
	require.Equal(t, "jobs@coast.example", agency.ContactEmail)
	require.Equal(t, "+254112345678", *agency.Phone)

	agencies, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, agencies, 4)
	require.Equal(t, "Coast Hires", agencies[0].Name)

	got, err := svc.Get(ctx, agency.ID)
	require.NoError(t, err)
	require.Equal(t, agency.ID, got.ID)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrAgencyNotFound)

	_, err = svc.Create(ctx, CreateAgencyInput{Name: " ", ContactEmail: "x@example.com"})
	_, ok := AsValidationError(err)
	require.True(t, ok)
}
