package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

func registerBody(username, email, password, confirm string) []byte {
	body, _ := json.Marshal(map[string]string{
		"username": username, "email": email, "password": password, "confirmPassword": confirm,
	})
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	alice := testUser("alice", "a@x.com")
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users \(id, username, email, password, confirm_password, profile_pic\)`).
		WithArgs(sqlmock.AnyArg(), "alice", "a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(), models.DefaultProfilePic).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userRow(alice)...))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(alice.ID, models.ActionCreate, models.ResourceUser, alice.ID, "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := &AuthHandler{Users: newUserService(db), AuditRepo: repo.NewAuditRepo(db)}

	req := httptest.NewRequest("POST", "/users/register",
		bytes.NewReader(registerBody("alice", "a@x.com", "password1", "password1")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status: got %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var out map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["id"] != alice.ID.String() || out["username"] != "alice" || out["profilePic"] != models.DefaultProfilePic {
		t.Errorf("unexpected response: %+v", out)
	}
	if tok, _ := out["token"].(string); tok == "" {
		t.Error("expected a token")
	}
	if _, ok := out["password"]; ok {
		t.Error("password must not be returned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userRow(testUser("alice", "a@x.com"))...))

	h := &AuthHandler{Users: newUserService(db)}

	req := httptest.NewRequest("POST", "/users/register",
		bytes.NewReader(registerBody("", "a@x.com", "x", "")))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("Register status: got %d, want 409", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "User already exists" {
		t.Errorf("error: got %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_PasswordLength(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"too short", "short"},
		{"twenty emoji", strings.Repeat("😀", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
				WithArgs("a@x.com").
				WillReturnError(sql.ErrNoRows)

			h := &AuthHandler{Users: newUserService(db)}

			req := httptest.NewRequest("POST", "/users/register",
				bytes.NewReader(registerBody("alice", "a@x.com", tt.password, tt.password)))
			rr := httptest.NewRecorder()
			h.Register(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Register status: got %d, want 400 (body %s)", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), "Password must be between 8 and 20 characters") {
				t.Errorf("unexpected body: %s", rr.Body.String())
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &AuthHandler{Users: newUserService(db)}

	req := httptest.NewRequest("POST", "/users/register", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Register status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	alice := testUser("alice", "a@x.com")
	alice.Password = string(hash)
	alice.ConfirmPassword = string(hash)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userRow(alice)...))

	h := &AuthHandler{Users: newUserService(db)}

	body, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "password1"})
	req := httptest.NewRequest("POST", "/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("Login status: got %d, want 201", rr.Code)
	}
	var out struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.Username != "alice" || out.ID != alice.ID.String() {
		t.Errorf("unexpected response: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	h := &AuthHandler{Users: newUserService(db)}

	body, _ := json.Marshal(map[string]string{"email": "nobody@x.com", "password": "password1"})
	req := httptest.NewRequest("POST", "/users/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "User not found, or invalid login" {
		t.Errorf("error: got %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
