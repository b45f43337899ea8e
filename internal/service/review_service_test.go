package service

import (
	"testing"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRecomputesRatingAverage(t *testing.T) {
	env := setupServices(t)
	owner := seedUser(t, env.db, "owner", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, owner.ID, category.ID, "Exporter", "exporter")

	ratings := []int{5, 5, 4}
	reviewers := make([]uint64, len(ratings))
	for i, rating := range ratings {
		reviewer := seedUser(t, env.db, []string{"alice", "bob", "carol"}[i], false)
		reviewers[i] = reviewer.ID
		_, err := env.reviews.Submit(plugin.ID, reviewer.ID, &domain.ReviewRequest{Rating: rating})
		require.NoError(t, err)
	}

	var got domain.Plugin
	require.NoError(t, env.db.First(&got, plugin.ID).Error)
	assert.InDelta(t, 4.67, got.RatingAvg, 0.001)
	assert.Equal(t, 3, got.RatingCount)

	// dropping the 4 brings the average back to a clean 5.00
	carolReview, err := env.reviews.FindForUser(plugin.ID, reviewers[2])
	require.NoError(t, err)
	deletedFrom, err := env.reviews.Delete(carolReview.ID, reviewers[2], false)
	require.NoError(t, err)
	assert.Equal(t, plugin.ID, deletedFrom)

	require.NoError(t, env.db.First(&got, plugin.ID).Error)
	assert.InDelta(t, 5.00, got.RatingAvg, 0.001)
	assert.Equal(t, 2, got.RatingCount)
}

func TestSubmitSingleReviewRating(t *testing.T) {
	env := setupServices(t)
	owner := seedUser(t, env.db, "owner", false)
	reviewer := seedUser(t, env.db, "alice", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, owner.ID, category.ID, "Exporter", "exporter")

	_, err := env.reviews.Submit(plugin.ID, reviewer.ID, &domain.ReviewRequest{Rating: 5})
	require.NoError(t, err)

	var got domain.Plugin
	require.NoError(t, env.db.First(&got, plugin.ID).Error)
	assert.InDelta(t, 5.00, got.RatingAvg, 0.001)
	assert.Equal(t, 1, got.RatingCount)
}

func TestResubmitOverwritesExistingReview(t *testing.T) {
	env := setupServices(t)
	owner := seedUser(t, env.db, "owner", false)
	reviewer := seedUser(t, env.db, "alice", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, owner.ID, category.ID, "Exporter", "exporter")

	_, err := env.reviews.Submit(plugin.ID, reviewer.ID, &domain.ReviewRequest{Rating: 2, Comment: "rough"})
	require.NoError(t, err)
	saved, err := env.reviews.Submit(plugin.ID, reviewer.ID, &domain.ReviewRequest{Rating: 4, Comment: "better now"})
	require.NoError(t, err)

	assert.Equal(t, 4, saved.Rating)
	assert.Equal(t, "better now", saved.Comment)

	var count int64
	env.db.Model(&domain.Review{}).Where("plugin_id = ?", plugin.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var got domain.Plugin
	require.NoError(t, env.db.First(&got, plugin.ID).Error)
	assert.InDelta(t, 4.00, got.RatingAvg, 0.001)
	assert.Equal(t, 1, got.RatingCount)
}

func TestDeleteLastReviewResetsRating(t *testing.T) {
	env := setupServices(t)
	owner := seedUser(t, env.db, "owner", false)
	reviewer := seedUser(t, env.db, "alice", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, owner.ID, category.ID, "Exporter", "exporter")

	saved, err := env.reviews.Submit(plugin.ID, reviewer.ID, &domain.ReviewRequest{Rating: 3})
	require.NoError(t, err)

	_, err = env.reviews.Delete(saved.ID, reviewer.ID, false)
	require.NoError(t, err)

	var got domain.Plugin
	require.NoError(t, env.db.First(&got, plugin.ID).Error)
	assert.InDelta(t, 0.00, got.RatingAvg, 0.001)
	assert.Equal(t, 0, got.RatingCount)
}

func TestSubmitStripsMarkupFromComment(t *testing.T) {
	env := setupServices(t)
	owner := seedUser(t, env.db, "owner", false)
	reviewer := seedUser(t, env.db, "alice", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, owner.ID, category.ID, "Exporter", "exporter")

	saved, err := env.reviews.Submit(plugin.ID, reviewer.ID, &domain.ReviewRequest{
		Rating:  4,
		Comment: `<script>alert("x")</script>solid <b>plugin</b>`,
	})
	require.NoError(t, err)
	assert.Equal(t, `alert("x")solid plugin`, saved.Comment)
}

func TestSubmitOwnPluginRejected(t *testing.T) {
	env := setupServices(t)
	owner := seedUser(t, env.db, "owner", false)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, owner.ID, category.ID, "Exporter", "exporter")

	_, err := env.reviews.Submit(plugin.ID, owner.ID, &domain.ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, common.ErrSelfReview)
}

func TestDeleteReviewAuthorization(t *testing.T) {
	env := setupServices(t)
	owner := seedUser(t, env.db, "owner", false)
	reviewer := seedUser(t, env.db, "alice", false)
	stranger := seedUser(t, env.db, "mallory", false)
	admin := seedUser(t, env.db, "admin", true)
	category := seedCategory(t, env.db, "Tools", "tools")
	plugin := seedActivePlugin(t, env.db, owner.ID, category.ID, "Exporter", "exporter")

	saved, err := env.reviews.Submit(plugin.ID, reviewer.ID, &domain.ReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = env.reviews.Delete(saved.ID, stranger.ID, false)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = env.reviews.Delete(saved.ID, admin.ID, true)
	require.NoError(t, err)
}

func TestSubmitOnMissingPlugin(t *testing.T) {
	env := setupServices(t)
	reviewer := seedUser(t, env.db, "alice", false)

	_, err := env.reviews.Submit(9999, reviewer.ID, &domain.ReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, common.ErrPluginNotFound)
}
