package faq

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS faqs (
  id TEXT PRIMARY KEY,
  question TEXT NOT NULL,
  answer TEXT NOT NULL,
  category TEXT,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestFAQLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	shipping := "envios"
	second, err := svc.Create(ctx, EntryInput{Question: "¿Hacen envíos?", Answer: "Sí, a todo el país.", Category: &shipping, SortOrder: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, EntryInput{Question: "¿Dónde están?", Answer: "En Valencia.", SortOrder: 1})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "¿Dónde están?", list[0].Question)
	require.NotNil(t, list[1].Category)

	updated, err := svc.Update(ctx, second.ID, EntryInput{Question: "¿Hacen envíos nacionales?", Answer: "Sí.", SortOrder: 0})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, second.ID))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, second.ID), pkgerrors.CodeNotFound))
}

func TestFAQValidation(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), EntryInput{Question: " ", Answer: "x"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Update(context.Background(), uuid.New(), EntryInput{Question: "q", Answer: "a"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
