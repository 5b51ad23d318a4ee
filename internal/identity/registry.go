package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/maruel/ksid"
	"golang.org/x/crypto/bcrypt"

	"github.com/monitorbizz/monitorbizz/internal/catalog"
	"github.com/monitorbizz/monitorbizz/internal/kv"
)

// Demo describes the built-in demo company.
type Demo struct {
	ID       string
	Name     string
	Email    string
	Password string
	Services []string
}

// Registry manages companies.
type Registry struct {
	kv   kv.Storage
	demo *Company
	cost int

	mu sync.Mutex
}

// NewRegistry returns a registry stored in s. The demo company is skipped
// when demo.ID is empty.
func NewRegistry(s kv.Storage, demo Demo) (*Registry, error) {
	r := &Registry{kv: s, cost: bcrypt.DefaultCost}
	if demo.ID == "" {
		return r, nil
	}
	services, err := catalog.Normalize(demo.Services)
	if err != nil {
		return nil, fmt.Errorf("demo company: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demo.Password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	r.demo = &Company{
		ID:                 demo.ID,
		Name:               demo.Name,
		Email:              demo.Email,
		SubscribedServices: services,
		PasswordHash:       string(hash),
	}
	return r, nil
}

// List returns every company, the demo company first.
func (r *Registry) List(ctx context.Context) ([]*Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Company, len(all))
	for i, c := range all {
		out[i] = c.Clone()
	}
	return out, nil
}

// Get returns the company with the given id.
func (r *Registry) Get(ctx context.Context, id string) (*Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := slices.IndexFunc(all, func(c *Company) bool { return c.ID == id }); i >= 0 {
		return all[i].Clone(), nil
	}
	return nil, ErrNotFound
}

// Signup registers a company and makes it the active one.
func (r *Registry) Signup(ctx context.Context, req Signup) (*Company, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	services, err := catalog.Normalize(req.Services)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: select at least one service", ErrInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(all, func(c *Company) bool { return sameEmail(c.Email, req.Email) }) {
		return nil, ErrDuplicateEmail
	}
	c := &Company{
		ID:                 ksid.NewID().String(),
		Name:               req.CompanyName,
		Email:              req.Email,
		IndustryType:       req.IndustryType,
		SubscribedServices: services,
		PasswordHash:       string(hash),
	}
	if err := r.save(append(all, c)); err != nil {
		return nil, err
	}
	if err := r.kv.Set(KeyActiveCompany, c.ID); err != nil {
		return nil, fmt.Errorf("failed to set active company: %w", err)
	}
	slog.InfoContext(ctx, "identity: company registered", "id", c.ID, "services", len(services))
	return c.Clone(), nil
}

// Login authenticates a company by email and password and makes it the
// active one.
func (r *Registry) Login(ctx context.Context, email, password string) (*Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(c *Company) bool { return sameEmail(c.Email, email) })
	if i < 0 {
		return nil, ErrInvalidCredentials
	}
	c := all[i]
	if c.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := r.kv.Set(KeyActiveCompany, c.ID); err != nil {
		return nil, fmt.Errorf("failed to set active company: %w", err)
	}
	return c.Clone(), nil
}

// Logout clears the active company.
func (r *Registry) Logout(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.kv.Remove(KeyActiveCompany); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("failed to clear active company: %w", err)
	}
	return nil
}

// Active returns the active company, or ErrNotFound.
func (r *Registry) Active(ctx context.Context) (*Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := r.kv.Get(KeyActiveCompany)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read active company: %w", err)
	}
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := slices.IndexFunc(all, func(c *Company) bool { return c.ID == id }); i >= 0 {
		return all[i].Clone(), nil
	}
	return nil, ErrNotFound
}

// load returns the stored companies with the demo company overlaid. A
// malformed array reads as empty so the registry stays usable.
func (r *Registry) load(ctx context.Context) ([]*Company, error) {
	var stored []*Company
	raw, err := r.kv.Get(KeyCompanies)
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to read companies: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			slog.WarnContext(ctx, "identity: malformed company registry", "err", err)
			stored = nil
		}
	}
	all := make([]*Company, 0, len(stored)+1)
	if r.demo != nil {
		all = append(all, r.demo)
	}
	for _, c := range stored {
		if c == nil || c.Validate() != nil {
			continue
		}
		if r.demo != nil && c.ID == r.demo.ID {
			continue
		}
		all = append(all, c)
	}
	return all, nil
}

// save persists every company except the demo one.
func (r *Registry) save(all []*Company) error {
	stored := make([]*Company, 0, len(all))
	for _, c := range all {
		if r.demo != nil && c.ID == r.demo.ID {
			continue
		}
		stored = append(stored, c)
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	if err := r.kv.Set(KeyCompanies, string(raw)); err != nil {
		return fmt.Errorf("failed to save companies: %w", err)
	}
	return nil
}
