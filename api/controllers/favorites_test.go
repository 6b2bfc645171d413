package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loyafu/storefront-backend/api/middleware"
	"github.com/loyafu/storefront-backend/internal/favorites"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

type stubFavoritesService struct {
	ids     map[string][]string
	missing string
}

func (s *stubFavoritesService) List(_ context.Context, sessionID string) (favorites.ListDTO, error) {
	return favorites.ListDTO{IDs: append([]string{}, s.ids[sessionID]...)}, nil
}

func (s *stubFavoritesService) Add(_ context.Context, sessionID, productID string) error {
	if productID == s.missing {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", productID)
	}
	s.ids[sessionID] = append(s.ids[sessionID], productID)
	return nil
}

func (s *stubFavoritesService) Remove(_ context.Context, sessionID, productID string) error {
	kept := s.ids[sessionID][:0]
	for _, id := range s.ids[sessionID] {
		if id != productID {
			kept = append(kept, id)
		}
	}
	s.ids[sessionID] = kept
	return nil
}

func favoritesRequest(method, body, sessionID string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/favorites", strings.NewReader(body))
	if sessionID == "" {
		return req
	}
	return req.WithContext(middleware.WithCartSession(req.Context(), sessionID))
}

func TestFavoritesAddThenRemove(t *testing.T) {
	svc := &stubFavoritesService{ids: map[string][]string{}}

	rec := httptest.NewRecorder()
	FavoritesAdd(svc, testLogger())(rec, favoritesRequest(http.MethodPost, `{"product_id":"prod_1"}`, "sess-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var list favorites.ListDTO
	decodeData(t, rec, &list)
	if len(list.IDs) != 1 || list.IDs[0] != "prod_1" {
		t.Fatalf("unexpected favorites %v", list.IDs)
	}

	rec = httptest.NewRecorder()
	FavoritesRemove(svc, testLogger())(rec, favoritesRequest(http.MethodDelete, `{"product_id":"prod_1"}`, "sess-1"))
	decodeData(t, rec, &list)
	if len(list.IDs) != 0 {
		t.Fatalf("expected empty favorites, got %v", list.IDs)
	}
}

func TestFavoritesRejectsMissingSessionAndProduct(t *testing.T) {
	svc := &stubFavoritesService{ids: map[string][]string{}, missing: "prod_gone"}

	rec := httptest.NewRecorder()
	FavoritesAdd(svc, testLogger())(rec, favoritesRequest(http.MethodPost, `{"product_id":"prod_1"}`, ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	FavoritesAdd(svc, testLogger())(rec, favoritesRequest(http.MethodPost, `{"product_id":"prod_gone"}`, "sess-1"))
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "NOT_FOUND" {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	FavoritesAdd(svc, testLogger())(rec, favoritesRequest(http.MethodPost, `{}`, "sess-1"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product_id, got %d", rec.Code)
	}
}

func TestFavoritesNilServiceIsInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	FavoritesList(nil, testLogger())(rec, favoritesRequest(http.MethodGet, "", "sess-1"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
