package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	product "github.com/loyafu/storefront-backend/internal/products"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

type memorySets struct {
	sets map[string]map[string]struct{}
	ttls map[string]time.Duration
}

func (m *memorySets) SAdd(_ context.Context, key string, ttl time.Duration, members ...string) error {
	if m.sets[key] == nil {
		m.sets[key] = map[string]struct{}{}
	}
	for _, member := range members {
		m.sets[key][member] = struct{}{}
	}
	m.ttls[key] = ttl
	return nil
}

func (m *memorySets) SRem(_ context.Context, key string, members ...string) error {
	for _, member := range members {
		delete(m.sets[key], member)
	}
	return nil
}

func (m *memorySets) SMembers(_ context.Context, key string) ([]string, error) {
	out := []string{}
	for member := range m.sets[key] {
		out = append(out, member)
	}
	return out, nil
}

func (m *memorySets) FavoritesKey(sessionID string) string { return "lf:favorites:" + sessionID }

type stubProducts map[string]product.ProductDTO

func (p stubProducts) Get(_ context.Context, id string) (*product.ProductDTO, error) {
	dto, ok := p[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &dto, nil
}

func (p stubProducts) GetMany(_ context.Context, ids []string) ([]product.ProductDTO, error) {
	out := []product.ProductDTO{}
	for _, id := range ids {
		if dto, ok := p[id]; ok && dto.IsActive {
			out = append(out, dto)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, catalog stubProducts) (Service, *memorySets) {
	t.Helper()
	sets := &memorySets{sets: map[string]map[string]struct{}{}, ttls: map[string]time.Duration{}}
	svc, err := NewService(ServiceParams{Store: sets, Products: catalog, TTL: time.Hour})
	require.NoError(t, err)
	return svc, sets
}

func TestFavoritesAddListRemove(t *testing.T) {
	catalog := stubProducts{
		"prod_1": {ID: "prod_1", Name: "Labial Rojo", IsActive: true},
		"prod_2": {ID: "prod_2", Name: "Base Mate", IsActive: true},
	}
	svc, sets := newTestService(t, catalog)
	ctx := context.Background()
	session := uuid.NewString()

	require.NoError(t, svc.Add(ctx, session, "prod_2"))
	require.NoError(t, svc.Add(ctx, session, "prod_1"))
	require.NoError(t, svc.Add(ctx, session, "prod_1"))
	assert.Equal(t, time.Hour, sets.ttls["lf:favorites:"+session])

	list, err := svc.List(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod_1", "prod_2"}, list.IDs)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Labial Rojo", list.Items[0].Name)

	require.NoError(t, svc.Remove(ctx, session, "prod_1"))
	require.NoError(t, svc.Remove(ctx, session, "prod_1"))
	list, err = svc.List(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod_2"}, list.IDs)
}

func TestFavoritesSkipsDelistedProducts(t *testing.T) {
	catalog := stubProducts{"prod_1": {ID: "prod_1", IsActive: true}}
	svc, _ := newTestService(t, catalog)
	ctx := context.Background()
	session := uuid.NewString()

	require.NoError(t, svc.Add(ctx, session, "prod_1"))
	delete(catalog, "prod_1")

	list, err := svc.List(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod_1"}, list.IDs)
	assert.Empty(t, list.Items)
}

func TestFavoritesRejectsUnknownProductAndSession(t *testing.T) {
	svc, _ := newTestService(t, stubProducts{"prod_3": {ID: "prod_3", IsActive: false}})
	ctx := context.Background()

	err := svc.Add(ctx, uuid.NewString(), "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = svc.Add(ctx, uuid.NewString(), "prod_3")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.List(ctx, "abc")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
