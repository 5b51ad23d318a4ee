package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/monitorbizz/monitorbizz/internal/config"
	"github.com/monitorbizz/monitorbizz/internal/dashboard"
	"github.com/monitorbizz/monitorbizz/internal/identity"
	"github.com/monitorbizz/monitorbizz/internal/kv"
	"github.com/monitorbizz/monitorbizz/internal/server/dto"
	"github.com/monitorbizz/monitorbizz/internal/server/handlers"
	"github.com/monitorbizz/monitorbizz/internal/tenantdb"
)

var testJWTSecret = []byte("test-secret-key-32-bytes-long!!!")

type testEnv struct {
	server *httptest.Server
	data   kv.Storage
	store  *tenantdb.Store
}

// setupTestEnv starts a server whose tenant data lives in data. Companies
// are registered in a separate unlimited storage so a quota on data only
// affects tenant writes.
func setupTestEnv(t *testing.T, data kv.Storage) *testEnv {
	if data == nil {
		data = kv.NewMemory(0)
	}
	serverCfg := config.Default()
	serverCfg.JWTSecret = testJWTSecret
	serverCfg.MaxRequestBodyBytes = 4096
	registry, err := identity.NewRegistry(kv.NewMemory(0), serverCfg.Demo.Identity())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	store := tenantdb.New(data, serverCfg.Demo.TenantID)
	svc := &handlers.Services{
		Store:     store,
		Registry:  registry,
		Dashboard: dashboard.New(store),
	}
	cfg := &handlers.Config{
		ServerConfig: &serverCfg,
		Version:      "test",
		GoVersion:    "go1.25.5",
		Revision:     "abc1234",
	}
	router, closeLimiters := NewRouter(svc, cfg)
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		closeLimiters()
	})
	return &testEnv{server: server, data: data, store: store}
}

// doJSON performs an HTTP request, decodes the JSON response, and returns the status code.
// A string body is sent verbatim.
func (e *testEnv) doJSON(t *testing.T, method, path string, body, response any, token string) int {
	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		bodyReader = strings.NewReader(b)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, bodyReader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do request: %v", err)
	}
	data, err := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		t.Fatalf("ReadAll/Close: %v", err)
	}
	if response != nil && len(data) > 0 {
		if err := json.Unmarshal(data, response); err != nil {
			t.Fatalf("Unmarshal response: %v\nBody: %s", err, string(data))
		}
	}
	return resp.StatusCode
}

func (e *testEnv) loginDemo(t *testing.T) string {
	var resp dto.AuthResponse
	req := dto.LoginRequest{Email: "admin@acme.com", Password: "demo1234"}
	if status := e.doJSON(t, http.MethodPost, "/api/v1/auth/login", req, &resp, ""); status != http.StatusOK {
		t.Fatalf("demo login: got status %d", status)
	}
	return resp.Token
}

func (e *testEnv) signup(t *testing.T, email string, services ...string) dto.AuthResponse {
	var resp dto.AuthResponse
	req := dto.SignupRequest{CompanyName: "Globex " + email, Email: email, Password: "secret12", Services: services}
	if status := e.doJSON(t, http.MethodPost, "/api/v1/auth/signup", req, &resp, ""); status != http.StatusOK {
		t.Fatalf("signup %s: got status %d", email, status)
	}
	return resp
}

type machineRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type machineList struct {
	Records []machineRecord `json:"records"`
	dto.StorageState
}

type machineResponse struct {
	Record machineRecord `json:"record"`
	dto.StorageState
}

func TestIntegration(t *testing.T) {
	t.Parallel()
	t.Run("Health", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, nil)
		var health dto.HealthResponse
		if status := env.doJSON(t, http.MethodGet, "/api/health", nil, &health, ""); status != http.StatusOK {
			t.Fatalf("GET /api/health: got status %d", status)
		}
		if health.Status != "ok" || health.Version != "test" || health.Revision != "abc1234" {
			t.Errorf("health = %+v", health)
		}
		if health.Storage != kv.BackendDir {
			t.Errorf("storage = %q", health.Storage)
		}
	})

	t.Run("Catalog", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, nil)
		var services dto.ListServicesResponse
		if status := env.doJSON(t, http.MethodGet, "/api/v1/services", nil, &services, ""); status != http.StatusOK {
			t.Fatalf("services: got status %d", status)
		}
		if len(services.Services) == 0 || services.Services[0].ID != "dashboard" {
			t.Errorf("services = %+v", services.Services)
		}
		var collections dto.ListCollectionsResponse
		if status := env.doJSON(t, http.MethodGet, "/api/v1/collections", nil, &collections, ""); status != http.StatusOK {
			t.Fatalf("collections: got status %d", status)
		}
		if n := len(collections.Collections); n != 13 {
			t.Errorf("collections len = %d, want 12 collections and settings", n)
		}
		var schema dto.SchemaResponse
		if status := env.doJSON(t, http.MethodGet, "/api/v1/collections/machines/schema", nil, &schema, ""); status != http.StatusOK {
			t.Fatalf("schema: got status %d", status)
		}
		if schema.Collection != "machines" || len(schema.Columns) == 0 || schema.Schema == nil {
			t.Errorf("schema = %+v", schema)
		}
		if status := env.doJSON(t, http.MethodGet, "/api/v1/collections/widgets/schema", nil, nil, ""); status != http.StatusNotFound {
			t.Errorf("unknown schema: got status %d", status)
		}
	})

	t.Run("DemoTenant", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, nil)
		token := env.loginDemo(t)

		var me dto.CompanyResponse
		if status := env.doJSON(t, http.MethodGet, "/api/v1/auth/me", nil, &me, token); status != http.StatusOK {
			t.Fatalf("me: got status %d", status)
		}
		if me.ID != "1" || me.Name != "ACME Manufacturing" {
			t.Errorf("me = %+v", me)
		}

		var list machineList
		if status := env.doJSON(t, http.MethodGet, "/api/v1/tenants/1/collections/machines", nil, &list, token); status != http.StatusOK {
			t.Fatalf("list: got status %d", status)
		}
		if len(list.Records) != 7 || list.Records[0].Name != "CNC-001" {
			t.Errorf("seeded machines = %+v", list.Records)
		}
		if keys, _ := env.data.Keys(); len(keys) != 0 {
			t.Errorf("listing wrote to storage: %v", keys)
		}

		var dash dto.DashboardResponse
		if status := env.doJSON(t, http.MethodGet, "/api/v1/tenants/1/dashboard", nil, &dash, token); status != http.StatusOK {
			t.Fatalf("dashboard: got status %d", status)
		}
		if dash.Machines != 7 || dash.Production != 428 || dash.OEE != 77 {
			t.Errorf("dashboard = %+v", dash)
		}
	})

	t.Run("RecordWorkflow", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, nil)
		auth := env.signup(t, "ops@globex.com", "machines")
		base := "/api/v1/tenants/" + auth.Company.ID + "/collections/machines"

		var list machineList
		if status := env.doJSON(t, http.MethodGet, base, nil, &list, auth.Token); status != http.StatusOK {
			t.Fatalf("list: got status %d", status)
		}
		if len(list.Records) != 0 {
			t.Errorf("new tenant is seeded: %+v", list.Records)
		}

		var created machineResponse
		m := machineRecord{Name: "Drill-01", Type: "CNC", Status: "Available"}
		if status := env.doJSON(t, http.MethodPost, base, m, &created, auth.Token); status != http.StatusOK {
			t.Fatalf("create: got status %d", status)
		}
		if !strings.HasPrefix(created.Record.ID, "mach-") || created.Record.Name != "Drill-01" || created.Degraded {
			t.Errorf("created = %+v", created)
		}
		id := created.Record.ID

		var updated machineResponse
		m.Status = "Broken"
		m.ID = "ignored"
		if status := env.doJSON(t, http.MethodPut, base+"/"+id, m, &updated, auth.Token); status != http.StatusOK {
			t.Fatalf("update: got status %d", status)
		}
		if updated.Record.ID != id || updated.Record.Status != "Broken" {
			t.Errorf("updated = %+v", updated)
		}
		if status := env.doJSON(t, http.MethodPut, base+"/missing", m, nil, auth.Token); status != http.StatusNotFound {
			t.Errorf("update missing: got status %d", status)
		}

		if status := env.doJSON(t, http.MethodGet, base, nil, &list, auth.Token); status != http.StatusOK {
			t.Fatalf("list: got status %d", status)
		}
		if len(list.Records) != 1 || list.Records[0].Status != "Broken" {
			t.Errorf("after update = %+v", list.Records)
		}

		var del dto.DeleteRecordResponse
		if status := env.doJSON(t, http.MethodDelete, base+"/"+id, nil, &del, auth.Token); status != http.StatusOK || !del.Deleted {
			t.Errorf("delete: got status %d, %+v", status, del)
		}
		if status := env.doJSON(t, http.MethodDelete, base+"/"+id, nil, &del, auth.Token); status != http.StatusOK || del.Deleted {
			t.Errorf("delete again: got status %d, %+v", status, del)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, nil)
		token := env.loginDemo(t)
		base := "/api/v1/tenants/1/collections/machines"
		tests := []struct {
			name   string
			body   any
			status int
			code   dto.ErrorCode
		}{
			{"bad status", machineRecord{Name: "Drill", Type: "CNC", Status: "Melting"}, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
			{"short name", machineRecord{Name: "D", Type: "CNC", Status: "Available"}, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
			{"unknown field", `{"name":"Drill","type":"CNC","status":"Available","color":"red"}`, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
			{"not an object", `["Drill"]`, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
			{"empty body", nil, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
			{"too large", `{"name":"` + strings.Repeat("x", 5000) + `"}`, http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var resp dto.ErrorResponse
				if status := env.doJSON(t, http.MethodPost, base, tt.body, &resp, token); status != tt.status {
					t.Errorf("got status %d, want %d", status, tt.status)
				}
				if resp.Error.Code != tt.code {
					t.Errorf("code = %q, want %q", resp.Error.Code, tt.code)
				}
			})
		}

		var resp dto.ErrorResponse
		env.doJSON(t, http.MethodPost, base, machineRecord{Name: "Drill", Type: "Laser", Status: "Available"}, &resp, token)
		if resp.Details["field"] != "type" {
			t.Errorf("details = %v", resp.Details)
		}
		if status := env.doJSON(t, http.MethodGet, "/api/v1/tenants/1/collections/widgets", nil, nil, token); status != http.StatusNotFound {
			t.Errorf("unknown collection: got status %d", status)
		}
	})

	t.Run("Subscriptions", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, nil)
		auth := env.signup(t, "sales@globex.com", "customers")
		base := "/api/v1/tenants/" + auth.Company.ID

		if status := env.doJSON(t, http.MethodGet, base+"/collections/customers", nil, nil, auth.Token); status != http.StatusOK {
			t.Errorf("customers: got status %d", status)
		}
		var resp dto.ErrorResponse
		if status := env.doJSON(t, http.MethodGet, base+"/collections/machines", nil, &resp, auth.Token); status != http.StatusForbidden {
			t.Errorf("machines: got status %d", status)
		}
		if resp.Error.Code != dto.ErrorCodeForbidden || resp.Details["services"] == nil {
			t.Errorf("forbidden response = %+v", resp)
		}
		if status := env.doJSON(t, http.MethodGet, base+"/dashboard", nil, nil, auth.Token); status != http.StatusForbidden {
			t.Errorf("dashboard: got status %d", status)
		}
		if status := env.doJSON(t, http.MethodGet, base+"/settings", nil, nil, auth.Token); status != http.StatusOK {
			t.Errorf("settings: got status %d", status)
		}
	})

	t.Run("Settings", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, nil)
		auth := env.signup(t, "admin@globex.com", "settings")
		path := "/api/v1/tenants/" + auth.Company.ID + "/settings"

		type settings struct {
			Settings struct {
				CompanyName      string `json:"companyName"`
				Currency         string `json:"currency"`
				AutoSaveInterval int    `json:"autoSaveInterval"`
			} `json:"settings"`
		}
		var got settings
		if status := env.doJSON(t, http.MethodGet, path, nil, &got, auth.Token); status != http.StatusOK {
			t.Fatalf("get: got status %d", status)
		}
		if got.Settings.Currency != "USD" {
			t.Errorf("defaults = %+v", got.Settings)
		}
		if status := env.doJSON(t, http.MethodPut, path, `{"currency":"EUR"}`, &got, auth.Token); status != http.StatusOK {
			t.Fatalf("put: got status %d", status)
		}
		if got.Settings.Currency != "EUR" || got.Settings.AutoSaveInterval != 5 {
			t.Errorf("merged = %+v", got.Settings)
		}
		if status := env.doJSON(t, http.MethodPut, path, `{"autoSaveInterval":0}`, nil, auth.Token); status != http.StatusBadRequest {
			t.Errorf("invalid settings: got status %d", status)
		}
		raw, err := env.data.Get(tenantdb.Key("settings", auth.Company.ID))
		if err != nil || !strings.Contains(raw, `"EUR"`) {
			t.Errorf("stored settings = %q, %v", raw, err)
		}
	})

	t.Run("Degraded", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, kv.NewMemory(64))
		token := env.loginDemo(t)
		base := "/api/v1/tenants/1/collections/machines"

		var created machineResponse
		m := machineRecord{Name: "Drill-01", Type: "CNC", Status: "Available"}
		if status := env.doJSON(t, http.MethodPost, base, m, &created, token); status != http.StatusOK {
			t.Fatalf("create: got status %d", status)
		}
		if !created.Degraded || created.StorageError == "" {
			t.Errorf("created = %+v, want degraded", created)
		}
		var list machineList
		env.doJSON(t, http.MethodGet, base, nil, &list, token)
		if len(list.Records) != 8 || !list.Degraded {
			t.Errorf("list = %d records, degraded=%v", len(list.Records), list.Degraded)
		}
	})

	t.Run("Auth", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t, nil)
		for _, token := range []string{"", "invalid-token"} {
			var resp dto.ErrorResponse
			if status := env.doJSON(t, http.MethodGet, "/api/v1/auth/me", nil, &resp, token); status != http.StatusUnauthorized {
				t.Errorf("token %q: got status %d", token, status)
			}
			if resp.Error.Code != dto.ErrorCodeUnauthorized {
				t.Errorf("token %q: code = %q", token, resp.Error.Code)
			}
		}
		req := dto.LoginRequest{Email: "admin@acme.com", Password: "wrong-password"}
		if status := env.doJSON(t, http.MethodPost, "/api/v1/auth/login", req, nil, ""); status != http.StatusUnauthorized {
			t.Errorf("wrong password: got status %d", status)
		}
		env.signup(t, "dup@globex.com", "machines")
		dup := dto.SignupRequest{CompanyName: "Again", Email: "DUP@globex.com", Password: "secret12", Services: []string{"machines"}}
		if status := env.doJSON(t, http.MethodPost, "/api/v1/auth/signup", dup, nil, ""); status != http.StatusConflict {
			t.Errorf("duplicate signup: got status %d", status)
		}
		bad := dto.SignupRequest{CompanyName: "Bad", Email: "bad@globex.com", Password: "secret12", Services: []string{"teleport"}}
		if status := env.doJSON(t, http.MethodPost, "/api/v1/auth/signup", bad, nil, ""); status != http.StatusBadRequest {
			t.Errorf("unknown service: got status %d", status)
		}
		token := env.loginDemo(t)
		var ok dto.OkResponse
		if status := env.doJSON(t, http.MethodPost, "/api/v1/auth/logout", nil, &ok, token); status != http.StatusOK || !ok.Ok {
			t.Errorf("logout: got status %d", status)
		}
	})
}
