package service

import (
	"testing"

	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	env := setupServices(t)
	svc := NewAdminService(
		repository.NewPluginRepository(env.db),
		repository.NewUserRepository(env.db),
		repository.NewReviewRepository(env.db),
	)

	owner := seedUser(t, env.db, "owner", false)
	alice := seedUser(t, env.db, "alice", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	active := seedActivePlugin(t, env.db, owner.ID, category.ID, "Exporter", "exporter")

	_, err := env.plugins.Create(owner.ID, createRequest("Importer", "", category.ID))
	require.NoError(t, err)

	_, err = env.reviews.Submit(active.ID, alice.ID, &domain.ReviewRequest{Rating: 5})
	require.NoError(t, err)
	_, err = env.plugins.Download(active.ID)
	require.NoError(t, err)

	stats, err := svc.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPlugins)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalReviews)
	assert.Equal(t, int64(1), stats.TotalDownloads)
	assert.Equal(t, int64(1), stats.PendingPlugins)
	assert.Equal(t, int64(1), stats.ActivePlugins)
}
