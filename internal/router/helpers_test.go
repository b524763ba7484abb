package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/junkcaptain/crm/backend/internal/handlers"
	"github.com/junkcaptain/crm/backend/internal/imagestore"
	"github.com/junkcaptain/crm/backend/internal/middleware"
	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/repositories"
	"github.com/junkcaptain/crm/backend/internal/services"
	"github.com/junkcaptain/crm/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "router-test-secret-router-test"
	testEmail    = "owner@junkcaptain.test"
	testPassword = "hunter22"
)

type memoryUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = uint(len(m.users) + 1)
	u.Email = models.NormalizeEmail(u.Email)
	m.users = append(m.users, *u)
	return nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memoryUsers) DeleteUserByEmail(context.Context, string) error { return nil }

type fakeImages struct{}

func (fakeImages) Upload(_ context.Context, img imagestore.Image) (string, error) {
	return "https://img.test/" + img.Filename, nil
}

type stubVerifier struct{ email string }

func (s stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken != "good-token" {
		return nil, fmt.Errorf("bad token")
	}
	return &auth.Token{UID: "fb-uid", Claims: map[string]interface{}{"email": s.email}}, nil
}

type testServer struct {
	e     *echo.Echo
	store *repositories.MemoryStore
	users *memoryUsers
}

type serverSetup struct {
	deps           Dependencies
	trustedProxies []string
}

type option func(*serverSetup)

func withLimiter(l middleware.Limiter) option {
	return func(s *serverSetup) { s.deps.QuoteLimiter = l }
}

func withFirebase(v handlers.IDTokenVerifier) option {
	return func(s *serverSetup) { s.deps.FirebaseAuth = v }
}

func withTrustedProxies(cidrs ...string) option {
	return func(s *serverSetup) { s.trustedProxies = cidrs }
}

func newTestServer(t *testing.T, opts ...option) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repositories.NewMemoryStore()
	users := &memoryUsers{}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.CreateUser(context.Background(), &models.User{
		Name: "Owner", Email: testEmail, PasswordHash: string(hash),
	}))

	crm := services.NewCustomerService(log, store.Leads(), store.Customers(), store.Notifications())
	setup := serverSetup{deps: Dependencies{
		Log:           log,
		Customers:     crm,
		Quotes:        services.NewQuoteService(log, crm, fakeImages{}, nil),
		Notifications: store.Notifications(),
		Users:         users,
		JWTSecret:     testSecret,
		TokenTTL:      time.Hour,
	}}
	for _, o := range opts {
		o(&setup)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)
	e.IPExtractor, err = IPExtractor(setup.trustedProxies)
	require.NoError(t, err)
	SetupRoutes(e, setup.deps)
	return &testServer{e: e, store: store, users: users}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	return s.do(t, req)
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rec := s.doJSON(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": strings.ToUpper(testEmail), "password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decode(t, rec, &resp)
	return resp["error"]
}

type filePart struct {
	name        string
	contentType string
	data        []byte
}

func quoteRequest(t *testing.T, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/quote", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderXRealIP, "198.51.100.7")
	return req
}

func validQuoteFields() map[string]string {
	return map[string]string{
		"name":    "Dana Reyes",
		"email":   "Dana@Example.com",
		"phone":   "(919) 555-1234",
		"address": "1 Main St",
		"message": "Old couch and a fridge",
	}
}
