package service

import (
	"testing"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRequest(name, slug string, categoryID uint64) *domain.PluginCreateRequest {
	return &domain.PluginCreateRequest{
		Name:          name,
		Slug:          slug,
		Description:   "a plugin",
		CategoryID:    categoryID,
		Version:       "1.0.0",
		Compatibility: "^2.0",
		LicenseType:   "MIT",
		Requirements:  map[string]string{"php": ">=8.1"},
	}
}

func TestCreateGeneratesSlugFromName(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")

	plugin, err := env.plugins.Create(author.ID, createRequest("My Plugin", "", category.ID))
	require.NoError(t, err)
	assert.Equal(t, "my-plugin", plugin.Slug)
	assert.Equal(t, domain.PluginStatusPending, plugin.Status)
}

func TestCreateSlugCollisionGetsSuffix(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")

	first, err := env.plugins.Create(author.ID, createRequest("My Plugin", "", category.ID))
	require.NoError(t, err)
	assert.Equal(t, "my-plugin", first.Slug)

	// different name, same normalized slug
	second, err := env.plugins.Create(author.ID, createRequest("My  Plugin!", "", category.ID))
	require.NoError(t, err)
	assert.Equal(t, "my-plugin-1", second.Slug)

	third, err := env.plugins.Create(author.ID, createRequest("My__Plugin", "", category.ID))
	require.NoError(t, err)
	assert.Equal(t, "my-plugin-2", third.Slug)
}

func TestCreateExplicitSlugKept(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")

	plugin, err := env.plugins.Create(author.ID, createRequest("My Plugin", "custom-handle", category.ID))
	require.NoError(t, err)
	assert.Equal(t, "custom-handle", plugin.Slug)
}

func TestCreateDuplicateNameRejected(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")

	_, err := env.plugins.Create(author.ID, createRequest("My Plugin", "", category.ID))
	require.NoError(t, err)

	_, err = env.plugins.Create(author.ID, createRequest("My Plugin", "", category.ID))
	assert.ErrorIs(t, err, common.ErrDuplicateName)
}

func TestCreateMissingCategoryRejected(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)

	_, err := env.plugins.Create(author.ID, createRequest("My Plugin", "", 42))
	assert.ErrorIs(t, err, common.ErrCategoryMissing)
}

func TestUpdateKeepsSlugOnRename(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")

	plugin, err := env.plugins.Create(author.ID, createRequest("My Plugin", "", category.ID))
	require.NoError(t, err)

	updated, err := env.plugins.Update(plugin.ID, author.ID, false, &domain.PluginUpdateRequest{
		Name:          "Totally Renamed",
		Description:   "a plugin",
		CategoryID:    category.ID,
		Version:       "1.1.0",
		Compatibility: "^2.0",
		LicenseType:   "GPL",
		Requirements:  map[string]string{"php": ">=8.2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Totally Renamed", updated.Name)
	assert.Equal(t, "my-plugin", updated.Slug)
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	stranger := seedUser(t, env.db, "mallory", false)
	category := seedCategory(t, env.db, "Tools", "tools")

	plugin, err := env.plugins.Create(author.ID, createRequest("My Plugin", "", category.ID))
	require.NoError(t, err)

	_, err = env.plugins.Update(plugin.ID, stranger.ID, false, &domain.PluginUpdateRequest{
		Name:          "Hijacked",
		Description:   "a plugin",
		CategoryID:    category.ID,
		Version:       "1.0.0",
		Compatibility: "^2.0",
		LicenseType:   "MIT",
		Requirements:  map[string]string{},
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestDeleteByNonOwnerForbidden(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	stranger := seedUser(t, env.db, "mallory", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, author.ID, category.ID, "Exporter", "exporter")

	err := env.plugins.Delete(plugin.ID, stranger.ID, false)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestDeleteByAdminAllowed(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	admin := seedUser(t, env.db, "admin", true)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, author.ID, category.ID, "Exporter", "exporter")

	require.NoError(t, env.plugins.Delete(plugin.ID, admin.ID, true))
}

func TestDeleteCascadesFavoritesKeepsReviews(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	alice := seedUser(t, env.db, "alice", false)
	bob := seedUser(t, env.db, "bob", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, author.ID, category.ID, "Exporter", "exporter")

	_, err := env.favorites.Toggle(alice.ID, plugin.ID)
	require.NoError(t, err)
	_, err = env.favorites.Toggle(bob.ID, plugin.ID)
	require.NoError(t, err)
	_, err = env.reviews.Submit(plugin.ID, alice.ID, &domain.ReviewRequest{Rating: 4})
	require.NoError(t, err)

	require.NoError(t, env.plugins.Delete(plugin.ID, author.ID, false))

	var favorites int64
	env.db.Model(&domain.Favorite{}).Where("plugin_id = ?", plugin.ID).Count(&favorites)
	assert.Equal(t, int64(0), favorites)

	var reviews int64
	env.db.Model(&domain.Review{}).Where("plugin_id = ?", plugin.ID).Count(&reviews)
	assert.Equal(t, int64(1), reviews)
}

func TestMutateSoftDeletedPluginNotFound(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, author.ID, category.ID, "Exporter", "exporter")

	require.NoError(t, env.plugins.Delete(plugin.ID, author.ID, false))

	err := env.plugins.Delete(plugin.ID, author.ID, false)
	assert.ErrorIs(t, err, common.ErrPluginNotFound)

	_, err = env.plugins.Get(plugin.ID, author.ID, false)
	assert.ErrorIs(t, err, common.ErrPluginNotFound)
}

func TestRestoreSoftDeletedPlugin(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	alice := seedUser(t, env.db, "alice", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, author.ID, category.ID, "Exporter", "exporter")

	_, err := env.favorites.Toggle(alice.ID, plugin.ID)
	require.NoError(t, err)
	require.NoError(t, env.plugins.Delete(plugin.ID, author.ID, false))

	require.NoError(t, env.plugins.Restore(plugin.ID))

	detail, err := env.plugins.Get(plugin.ID, author.ID, false)
	require.NoError(t, err)
	assert.Equal(t, plugin.ID, detail.Plugin.ID)

	// favorites removed by the delete cascade stay gone
	var favorites int64
	env.db.Model(&domain.Favorite{}).Where("plugin_id = ?", plugin.ID).Count(&favorites)
	assert.Equal(t, int64(0), favorites)
}

func TestHardDeleteCascadesEverything(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	alice := seedUser(t, env.db, "alice", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, author.ID, category.ID, "Exporter", "exporter")

	_, err := env.favorites.Toggle(alice.ID, plugin.ID)
	require.NoError(t, err)
	_, err = env.reviews.Submit(plugin.ID, alice.ID, &domain.ReviewRequest{Rating: 5})
	require.NoError(t, err)
	_, err = env.reports.Submit(plugin.ID, alice.ID, &domain.ReportRequest{Reason: domain.ReportReasonBroken})
	require.NoError(t, err)

	require.NoError(t, env.plugins.HardDelete(plugin.ID))

	for _, model := range []any{&domain.Favorite{}, &domain.Review{}, &domain.Report{}} {
		var count int64
		env.db.Model(model).Where("plugin_id = ?", plugin.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	}
	var plugins int64
	env.db.Unscoped().Model(&domain.Plugin{}).Where("id = ?", plugin.ID).Count(&plugins)
	assert.Equal(t, int64(0), plugins)
}

func TestGetHidesPendingFromStrangers(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	stranger := seedUser(t, env.db, "mallory", false)
	category := seedCategory(t, env.db, "Tools", "tools")

	plugin, err := env.plugins.Create(author.ID, createRequest("My Plugin", "", category.ID))
	require.NoError(t, err)

	_, err = env.plugins.Get(plugin.ID, stranger.ID, false)
	assert.ErrorIs(t, err, common.ErrPluginNotFound)

	detail, err := env.plugins.Get(plugin.ID, author.ID, false)
	require.NoError(t, err)
	assert.Equal(t, plugin.ID, detail.Plugin.ID)
}

func TestDownloadIncrementsCounter(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, author.ID, category.ID, "Exporter", "exporter")

	result, err := env.plugins.Download(plugin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Downloads)
	assert.Contains(t, result.DownloadURL, "exporter-1.0.0")

	var got domain.Plugin
	require.NoError(t, env.db.First(&got, plugin.ID).Error)
	assert.Equal(t, int64(1), got.Downloads)
}

func TestApproveStampsPublishedAt(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")

	plugin, err := env.plugins.Create(author.ID, createRequest("My Plugin", "", category.ID))
	require.NoError(t, err)

	require.NoError(t, env.plugins.Approve(plugin.ID))

	var got domain.Plugin
	require.NoError(t, env.db.First(&got, plugin.ID).Error)
	assert.Equal(t, domain.PluginStatusActive, got.Status)
	require.NotNil(t, got.PublishedAt)

	// approving twice is invalid, the plugin is no longer pending
	assert.ErrorIs(t, env.plugins.Approve(plugin.ID), common.ErrInvalidInput)
}

func TestToggleStatusPreservesPublishedAt(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, author.ID, category.ID, "Exporter", "exporter")

	next, err := env.plugins.ToggleStatus(plugin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PluginStatusInactive, next)

	next, err = env.plugins.ToggleStatus(plugin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PluginStatusActive, next)

	var got domain.Plugin
	require.NoError(t, env.db.First(&got, plugin.ID).Error)
	require.NotNil(t, got.PublishedAt)
}

func TestListFiltersByCategoryAndSearch(t *testing.T) {
	env := setupServices(t)
	author := seedUser(t, env.db, "author", false)
	tools := seedCategory(t, env.db, "Tools", "tools")
	themes := seedCategory(t, env.db, "Themes", "themes")
	seedActivePlugin(t, env.db, author.ID, tools.ID, "CSV Exporter", "csv-exporter")
	seedActivePlugin(t, env.db, author.ID, themes.ID, "Dark Theme", "dark-theme")

	plugins, total, err := env.plugins.List(domain.PluginListFilter{CategorySlug: "tools"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, plugins, 1)
	assert.Equal(t, "CSV Exporter", plugins[0].Name)

	plugins, total, err = env.plugins.List(domain.PluginListFilter{Search: "dark"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, plugins, 1)
	assert.Equal(t, "Dark Theme", plugins[0].Name)
}
