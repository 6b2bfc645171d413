package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/loyafu/storefront-backend/api/middleware"
	"github.com/loyafu/storefront-backend/internal/auth"
	"github.com/loyafu/storefront-backend/internal/users"
	pkgAuth "github.com/loyafu/storefront-backend/pkg/auth"
	"github.com/loyafu/storefront-backend/pkg/config"
	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

type stubAuthService struct {
	refreshReq  auth.RefreshRequest
	registerReq auth.RegisterRequest
	loggedOut   string
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	if req.Password != "correct-horse-1" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return &auth.TokenResponse{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil
}

func (s *stubAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.TokenResponse, error) {
	s.refreshReq = req
	return &auth.TokenResponse{AccessToken: "rotated-access", RefreshToken: "rotated-refresh"}, nil
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = accessID
	return nil
}

func (s *stubAuthService) Register(_ context.Context, req auth.RegisterRequest) (*users.AdminDTO, error) {
	s.registerReq = req
	return &users.AdminDTO{ID: uuid.New(), Email: req.Email, Name: req.Name}, nil
}

func TestAdminAuthLogin(t *testing.T) {
	stub := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(`{"email":"admin@loyafu.com","password":"correct-horse-1"}`))
	resp := httptest.NewRecorder()

	AdminAuthLogin(stub, testLogger()).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get(tokenHeader); got != "access-token" {
		t.Fatalf("expected token header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(`{"email":"admin@loyafu.com","password":"nope"}`))
	resp = httptest.NewRecorder()
	AdminAuthLogin(stub, testLogger()).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAdminAuthRefreshUsesBearer(t *testing.T) {
	stub := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/refresh", strings.NewReader(`{"refresh_token":"refresh-token"}`))
	req.Header.Set("Authorization", "Bearer old-access")
	resp := httptest.NewRecorder()

	AdminAuthRefresh(stub, testLogger()).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stub.refreshReq.AccessToken != "old-access" || stub.refreshReq.RefreshToken != "refresh-token" {
		t.Fatalf("unexpected refresh request %+v", stub.refreshReq)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/refresh", strings.NewReader(`{"refresh_token":"refresh-token"}`))
	resp = httptest.NewRecorder()
	AdminAuthRefresh(stub, testLogger()).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer, got %d", resp.Code)
	}
}

func TestAdminAuthLogoutAcceptsExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "loyafu", ExpirationMinutes: 1}
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().Add(-time.Hour), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleAdmin,
		JTI:    "access-123",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	stub := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()

	AdminAuthLogout(stub, cfg, testLogger()).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.loggedOut != "access-123" {
		t.Fatalf("expected session access-123 revoked, got %q", stub.loggedOut)
	}
}

func TestAdminAuthRegisterReadsTokenHeader(t *testing.T) {
	stub := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", strings.NewReader(`{"name":"Ana","email":"ana@loyafu.com","password":"labial-rojo-2024"}`))
	req.Header.Set(middleware.AdminRegisterHeader, "bootstrap")
	resp := httptest.NewRecorder()

	AdminAuthRegister(stub, testLogger()).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if stub.registerReq.Token != "bootstrap" {
		t.Fatalf("expected token to be forwarded, got %q", stub.registerReq.Token)
	}
}
