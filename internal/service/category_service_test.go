package service

import (
	"testing"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryService(t *testing.T) (*CategoryService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewCategoryService(repository.NewCategoryRepository(db)), db
}

func TestCategoryCRUD(t *testing.T) {
	svc, _ := setupCategoryService(t)

	created, err := svc.Create(&domain.CategoryRequest{Name: "Tools", Slug: "tools"})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, &domain.CategoryRequest{Name: "Dev Tools", Slug: "tools"})
	require.NoError(t, err)
	assert.Equal(t, "Dev Tools", updated.Name)

	require.NoError(t, svc.Delete(created.ID))

	list, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategoryDuplicateSlugRejected(t *testing.T) {
	svc, _ := setupCategoryService(t)

	_, err := svc.Create(&domain.CategoryRequest{Name: "Tools", Slug: "tools"})
	require.NoError(t, err)

	_, err = svc.Create(&domain.CategoryRequest{Name: "Other Tools", Slug: "tools"})
	assert.ErrorIs(t, err, common.ErrDuplicateName)
}

func TestCategoryDeleteBlockedWhileInUse(t *testing.T) {
	svc, db := setupCategoryService(t)
	owner := seedUser(t, db, "owner", false)

	created, err := svc.Create(&domain.CategoryRequest{Name: "Tools", Slug: "tools"})
	require.NoError(t, err)
	plugin := seedActivePlugin(t, db, owner.ID, created.ID, "Exporter", "exporter")

	assert.ErrorIs(t, svc.Delete(created.ID), common.ErrCategoryInUse)

	// soft-deleted plugins still block removal
	require.NoError(t, db.Delete(&domain.Plugin{}, plugin.ID).Error)
	assert.ErrorIs(t, svc.Delete(created.ID), common.ErrCategoryInUse)
}

func TestCategoryListCountsActiveOnly(t *testing.T) {
	svc, db := setupCategoryService(t)
	owner := seedUser(t, db, "owner", false)

	created, err := svc.Create(&domain.CategoryRequest{Name: "Tools", Slug: "tools"})
	require.NoError(t, err)
	seedActivePlugin(t, db, owner.ID, created.ID, "Exporter", "exporter")

	pending := seedActivePlugin(t, db, owner.ID, created.ID, "Importer", "importer")
	require.NoError(t, db.Model(&domain.Plugin{}).Where("id = ?", pending.ID).
		Update("status", domain.PluginStatusPending).Error)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].PluginCount)
}
