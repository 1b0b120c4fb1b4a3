// Package testutil holds the shared request-test harness: an in-memory
// SQLite-backed app plus the login helper the request suites use.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zaiko-backend/internal/auth"
	"zaiko-backend/internal/config"
	"zaiko-backend/internal/database"
	"zaiko-backend/internal/models"
	"zaiko-backend/internal/server"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	SessionSecret = "test-session-secret-0123456789abcdef"
	UserName      = "login_user"
	UserPassword  = "login_user_password"
)

// NewApp builds the app against a fresh in-memory database. Each test gets
// its own database; the shared-cache DSN keeps the pool on one store.
func NewApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	database.DB = db

	cfg := &config.Config{
		SessionSecret: SessionSecret,
		CORSOrigins:   "http://localhost:5173",
	}
	return server.New(cfg)
}

func CreateUser(t *testing.T, name, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{Name: name, PasswordHash: string(hash)}
	if err := database.DB.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func CreateStorehouse(t *testing.T, name string) *models.Storehouse {
	t.Helper()

	s := &models.Storehouse{Name: name}
	if err := database.DB.Create(s).Error; err != nil {
		t.Fatalf("create storehouse: %v", err)
	}
	return s
}

func CreateStock(t *testing.T, stock *models.Stock) *models.Stock {
	t.Helper()

	if err := database.DB.Create(stock).Error; err != nil {
		t.Fatalf("create stock: %v", err)
	}
	return stock
}

// Credentials carries what later requests need: the session cookie and the
// anti-forgery token issued at login.
type Credentials struct {
	User      *models.User
	Cookie    string
	CSRFToken string
}

// Login creates a user and logs it in, mirroring the flow a browser follows.
func Login(t *testing.T, app *fiber.App) *Credentials {
	t.Helper()

	user := CreateUser(t, UserName, UserPassword)

	resp := Do(t, app, Request{
		Method: http.MethodPost,
		Target: "/api/v1/login",
		Body:   fmt.Sprintf(`{"name":%q,"password":%q}`, UserName, UserPassword),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}

	creds := &Credentials{
		User:      user,
		CSRFToken: resp.Header.Get(auth.CSRFResponseHeader),
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == auth.CookieName {
			creds.Cookie = ck.Value
		}
	}
	if creds.Cookie == "" || creds.CSRFToken == "" {
		t.Fatal("login did not issue a session cookie and csrf token")
	}
	return creds
}

type Request struct {
	Method string
	Target string
	Body   string
	Creds  *Credentials
	// SkipCSRF sends the session cookie but withholds the token.
	SkipCSRF bool
}

func Do(t *testing.T, app *fiber.App, r Request) *http.Response {
	t.Helper()

	var body io.Reader
	if r.Body != "" {
		body = strings.NewReader(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Target, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Creds != nil {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: r.Creds.Cookie})
		if !r.SkipCSRF {
			req.Header.Set(auth.CSRFRequestHeader, r.Creds.CSRFToken)
		}
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", r.Method, r.Target, err)
	}
	return resp
}

// BodyMap decodes a JSON object response body.
func BodyMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var m map[string]interface{}
	decodeBody(t, resp, &m)
	return m
}

// BodyList decodes a JSON array response body.
func BodyList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()

	var l []map[string]interface{}
	decodeBody(t, resp, &l)
	return l
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode response body %q: %v", raw, err)
	}
}
