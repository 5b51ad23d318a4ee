package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
)

// TokenExpiration is the lifetime of an API token.
const TokenExpiration = 24 * time.Hour

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	registry  *identity.Registry
	jwtSecret []byte
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(registry *identity.Registry, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{registry: registry, jwtSecret: jwtSecret}
}

// Signup registers a company and returns a token for it.
func (h *AuthHandler) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	c, err := h.registry.Signup(ctx, identity.Signup{
		CompanyName:  req.CompanyName,
		Email:        req.Email,
		Password:     req.Password,
		IndustryType: req.IndustryType,
		Services:     req.Services,
	})
	switch {
	case errors.Is(err, identity.ErrDuplicateEmail):
		return nil, dto.Conflict("An account with this email already exists")
	case errors.Is(err, identity.ErrInvalid):
		return nil, dto.BadRequest(err.Error())
	case err != nil:
		return nil, dto.InternalWithError("Failed to register company", err)
	}
	return h.authResponse(c)
}

// Login authenticates a company and returns a token for it.
func (h *AuthHandler) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	c, err := h.registry.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return nil, dto.Unauthorized("Invalid credentials. Please try again.")
	case err != nil:
		return nil, dto.InternalWithError("Failed to log in", err)
	}
	return h.authResponse(c)
}

// Logout clears the active company.
func (h *AuthHandler) Logout(ctx context.Context, _ *identity.Company, _ *dto.LogoutRequest) (*dto.OkResponse, error) {
	if err := h.registry.Logout(ctx); err != nil {
		return nil, dto.InternalWithError("Failed to log out", err)
	}
	return &dto.OkResponse{Ok: true}, nil
}

// Me returns the authenticated company.
func (h *AuthHandler) Me(ctx context.Context, c *identity.Company, _ *dto.MeRequest) (*dto.CompanyResponse, error) {
	resp := companyToResponse(c)
	return &resp, nil
}

func (h *AuthHandler) authResponse(c *identity.Company) (*dto.AuthResponse, error) {
	token, err := h.GenerateToken(c)
	if err != nil {
		return nil, dto.InternalWithError("Failed to generate token", err)
	}
	return &dto.AuthResponse{Token: token, Company: companyToResponse(c)}, nil
}

// GenerateToken generates a JWT whose subject is the tenant ID.
func (h *AuthHandler) GenerateToken(c *identity.Company) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   c.ID,
		"email": c.Email,
		"exp":   now.Add(TokenExpiration).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}
