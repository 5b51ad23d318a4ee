package identity

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/monitorbizz/monitorbizz/internal/kv"
)

var demo = Demo{
	ID:       "1",
	Name:     "ACME Manufacturing",
	Email:    "admin@acme.com",
	Password: "demo1234",
	Services: []string{"dashboard", "machines", "settings"},
}

func newRegistry(t *testing.T, s kv.Storage) *Registry {
	t.Helper()
	r, err := NewRegistry(s, demo)
	if err != nil {
		t.Fatal(err)
	}
	r.cost = bcrypt.MinCost
	return r
}

func globex() Signup {
	return Signup{
		CompanyName: "Globex",
		Email:       "ops@globex.com",
		Password:    "hunter22",
		Services:    []string{"machines", "invoicing"},
	}
}

func TestRegistry(t *testing.T) {
	t.Run("demo company always present", func(t *testing.T) {
		ctx := t.Context()
		mem := kv.NewMemory(0)
		_ = mem.Set(KeyCompanies, `[{"id":"77","name":"Stored","email":"a@b.co","subscribedServices":[]}]`)
		r := newRegistry(t, mem)
		all, err := r.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 2 || all[0].ID != "1" || all[1].ID != "77" {
			t.Fatalf("List() = %+v", all)
		}
		c, err := r.Get(ctx, "1")
		if err != nil || c.Name != "ACME Manufacturing" {
			t.Errorf("Get(demo) = %+v, %v", c, err)
		}
	})

	t.Run("signup then login", func(t *testing.T) {
		ctx := t.Context()
		mem := kv.NewMemory(0)
		r := newRegistry(t, mem)
		c, err := r.Signup(ctx, globex())
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if c.ID == "" || c.ID == "1" || c.PasswordHash == "" || c.PasswordHash == "hunter22" {
			t.Errorf("Signup() = %+v", c)
		}
		if active, _ := mem.Get(KeyActiveCompany); active != c.ID {
			t.Errorf("active = %q, want %q", active, c.ID)
		}
		raw, _ := mem.Get(KeyCompanies)
		if strings.Contains(raw, "ACME") {
			t.Errorf("demo company persisted: %s", raw)
		}

		// A fresh registry over the same storage sees the company.
		r2 := newRegistry(t, mem)
		got, err := r2.Login(ctx, "OPS@Globex.com", "hunter22")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if got.ID != c.ID || !slices.Equal(got.SubscribedServices, []string{"machines", "invoicing"}) {
			t.Errorf("Login() = %+v", got)
		}
		if _, err := r2.Login(ctx, "ops@globex.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(wrong) error = %v", err)
		}
		if _, err := r2.Login(ctx, "nobody@globex.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(unknown) error = %v", err)
		}
	})

	t.Run("demo login", func(t *testing.T) {
		r := newRegistry(t, kv.NewMemory(0))
		c, err := r.Login(t.Context(), "admin@acme.com", "demo1234")
		if err != nil || c.ID != "1" {
			t.Errorf("Login() = %+v, %v", c, err)
		}
	})

	t.Run("signup validation", func(t *testing.T) {
		tests := []struct {
			name   string
			modify func(*Signup)
			want   error
		}{
			{"duplicate demo email", func(s *Signup) { s.Email = "Admin@ACME.com" }, ErrDuplicateEmail},
			{"short name", func(s *Signup) { s.CompanyName = " G " }, ErrInvalid},
			{"bad email", func(s *Signup) { s.Email = "not-an-email" }, ErrInvalid},
			{"short password", func(s *Signup) { s.Password = "abc" }, ErrInvalid},
			{"no services", func(s *Signup) { s.Services = nil }, ErrInvalid},
			{"unknown service", func(s *Signup) { s.Services = []string{"teleport"} }, ErrInvalid},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mem := kv.NewMemory(0)
				r := newRegistry(t, mem)
				req := globex()
				tt.modify(&req)
				if _, err := r.Signup(t.Context(), req); !errors.Is(err, tt.want) {
					t.Errorf("Signup() error = %v, want %v", err, tt.want)
				}
				if _, err := mem.Get(KeyCompanies); !errors.Is(err, kv.ErrNotFound) {
					t.Error("registry written on rejected signup")
				}
			})
		}
	})

	t.Run("duplicate signup", func(t *testing.T) {
		ctx := t.Context()
		r := newRegistry(t, kv.NewMemory(0))
		if _, err := r.Signup(ctx, globex()); err != nil {
			t.Fatal(err)
		}
		req := globex()
		req.Email = "OPS@GLOBEX.COM"
		if _, err := r.Signup(ctx, req); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Signup() error = %v", err)
		}
	})

	t.Run("active and logout", func(t *testing.T) {
		ctx := t.Context()
		r := newRegistry(t, kv.NewMemory(0))
		if _, err := r.Active(ctx); !errors.Is(err, ErrNotFound) {
			t.Errorf("Active() error = %v", err)
		}
		if _, err := r.Login(ctx, "admin@acme.com", "demo1234"); err != nil {
			t.Fatal(err)
		}
		if c, err := r.Active(ctx); err != nil || c.ID != "1" {
			t.Errorf("Active() = %+v, %v", c, err)
		}
		if err := r.Logout(ctx); err != nil {
			t.Fatal(err)
		}
		if err := r.Logout(ctx); err != nil {
			t.Errorf("second Logout() error = %v", err)
		}
		if _, err := r.Active(ctx); !errors.Is(err, ErrNotFound) {
			t.Errorf("Active() after logout error = %v", err)
		}
	})

	t.Run("malformed registry", func(t *testing.T) {
		mem := kv.NewMemory(0)
		_ = mem.Set(KeyCompanies, "{oops")
		all, err := newRegistry(t, mem).List(t.Context())
		if err != nil || len(all) != 1 {
			t.Errorf("List() = %v, %v", all, err)
		}
	})

	t.Run("persistence failure", func(t *testing.T) {
		r := newRegistry(t, kv.NewMemory(10))
		if _, err := r.Signup(t.Context(), globex()); !errors.Is(err, kv.ErrQuotaExceeded) {
			t.Errorf("Signup() error = %v, want ErrQuotaExceeded", err)
		}
	})

	t.Run("no demo", func(t *testing.T) {
		r, err := NewRegistry(kv.NewMemory(0), Demo{})
		if err != nil {
			t.Fatal(err)
		}
		if all, err := r.List(t.Context()); err != nil || len(all) != 0 {
			t.Errorf("List() = %v, %v", all, err)
		}
	})

	t.Run("copies", func(t *testing.T) {
		ctx := t.Context()
		r := newRegistry(t, kv.NewMemory(0))
		c, _ := r.Get(ctx, "1")
		c.SubscribedServices[0] = "changed"
		if c2, _ := r.Get(ctx, "1"); c2.SubscribedServices[0] != "dashboard" {
			t.Error("registry modified through returned company")
		}
	})
}
