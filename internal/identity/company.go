// Package identity keeps the registry of companies (tenants) and
// authenticates them.
//
// The registry lives in the same key-value storage as the tenant data:
//   - registered_companies: JSON array of companies
//   - active_company_id: id of the last company to log in or sign up
//
// The demo company comes from the server configuration and is always part of
// the registry, whatever the stored array holds.
package identity

import (
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
)

// Storage keys.
const (
	KeyCompanies     = "registered_companies"
	KeyActiveCompany = "active_company_id"
)

var (
	// ErrNotFound is returned when no company matches.
	ErrNotFound = errors.New("company not found")
	// ErrDuplicateEmail is returned by Signup when the email is taken.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrInvalidCredentials is returned by Login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalid wraps signup validation failures.
	ErrInvalid = errors.New("invalid signup")
)

const minPasswordLen = 6

// Company is a registered tenant.
type Company struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	IndustryType       string   `json:"industryType,omitempty"`
	SubscribedServices []string `json:"subscribedServices"`
	PasswordHash       string   `json:"passwordHash,omitempty"`
}

// Clone returns a deep copy.
func (c *Company) Clone() *Company {
	n := *c
	n.SubscribedServices = slices.Clone(c.SubscribedServices)
	return &n
}

// GetID returns the tenant id.
func (c *Company) GetID() string {
	return c.ID
}

// Validate checks the stored form of a company.
func (c *Company) Validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

// Subscribes reports whether the company subscribed to service.
func (c *Company) Subscribes(service string) bool {
	return slices.Contains(c.SubscribedServices, service)
}

// Signup is a new company registration.
type Signup struct {
	CompanyName  string   `json:"companyName"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	IndustryType string   `json:"industryType,omitempty"`
	Services     []string `json:"services"`
}

func (s *Signup) normalize() error {
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.Email = strings.TrimSpace(s.Email)
	s.IndustryType = strings.TrimSpace(s.IndustryType)
	if len(s.CompanyName) < 2 {
		return fmt.Errorf("%w: company name must be at least 2 characters", ErrInvalid)
	}
	addr, err := mail.ParseAddress(s.Email)
	if err != nil || addr.Address != s.Email {
		return fmt.Errorf("%w: invalid email address", ErrInvalid)
	}
	if len(s.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, minPasswordLen)
	}
	return nil
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
