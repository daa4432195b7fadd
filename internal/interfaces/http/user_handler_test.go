package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-pipeline-api/internal/application/auth"
	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	apphttp "github.com/jhoicas/crm-pipeline-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/crm-pipeline-api/pkg/jwt"
)

const otherUserID = "00000000-0000-0000-0000-000000000002"

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func (r *memUsers) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	return nil
}

func (r *memUsers) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *memUsers) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByEmail(email string) (*entity.User, error) { return r.GetByEmail(email) }

func (r *memUsers) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *u
	r.byID[u.ID] = &c
	return nil
}

func (r *memUsers) List(limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, id := range []string{testUserID, otherUserID} {
		if u, ok := r.byID[id]; ok {
			out = append(out, u)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func buildUserApp(t *testing.T) (*fiber.App, *memUsers) {
	t.Helper()
	now := time.Now()
	users := &memUsers{byID: map[string]*entity.User{
		testUserID:  {ID: testUserID, Email: "admin@crm.local", Role: entity.RoleAdmin, Status: entity.UserStatusActive, CreatedAt: now},
		otherUserID: {ID: otherUserID, Email: "ventas@crm.local", Role: entity.RoleSales, Status: entity.UserStatusActive, CreatedAt: now},
	}}
	fs := filters.NewService(filters.NewMemoryStore(time.Hour))
	uc := auth.NewAuthUseCase(users, fs, nil, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{AuthUC: uc, Filters: fs, JWTSecret: testJWTSecret})
	return app, users
}

func doAs(t *testing.T, app *fiber.App, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", authHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUserHandler_ListSoloAdmin(t *testing.T) {
	app, _ := buildUserApp(t)

	resp := doAs(t, app, http.MethodGet, "/api/users", tokenForRole(t, "sales"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doAs(t, app, http.MethodGet, "/api/users?limit=1&offset=1", tokenForRole(t, "admin"), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.UserListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ventas@crm.local", page.Items[0].Email)
	assert.Equal(t, 1, page.Limit)
}

func TestUserHandler_SuspenderBloqueaLaCuenta(t *testing.T) {
	app, users := buildUserApp(t)
	admin := tokenForRole(t, "admin")
	tok, err := pkgjwt.Generate(testJWTSecret, otherUserID, "sales", "sesion-ventas", testIssuer, testExpMin)
	require.NoError(t, err)
	seller := "Bearer " + tok

	resp := doAs(t, app, http.MethodGet, "/api/auth/me", seller, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAs(t, app, http.MethodPatch, "/api/users/"+otherUserID+"/status", admin, dto.UpdateUserStatusRequest{Status: entity.UserStatusSuspended})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.UserStatusSuspended, users.byID[otherUserID].Status)

	resp = doAs(t, app, http.MethodGet, "/api/auth/me", seller, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ACCOUNT_DISABLED", body["code"])
}

func TestUserHandler_UpdateStatusErrores(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		status string
		want   int
	}{
		{"estado desconocido", otherUserID, "borrado", http.StatusBadRequest},
		{"estado vacío", otherUserID, "", http.StatusBadRequest},
		{"propia cuenta", testUserID, entity.UserStatusSuspended, http.StatusForbidden},
		{"usuario inexistente", "00000000-0000-0000-0000-0000000000ff", entity.UserStatusSuspended, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := buildUserApp(t)
			resp := doAs(t, app, http.MethodPatch, "/api/users/"+tt.id+"/status", tokenForRole(t, "admin"), dto.UpdateUserStatusRequest{Status: tt.status})
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
