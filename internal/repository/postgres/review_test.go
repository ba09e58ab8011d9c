package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopworks/ecommerce-api/internal/domain"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

func newReviewTestFixture(t *testing.T) (*ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewReviewRepository(mock)
	return repo, mock
}

func TestReviewRepository_Upsert_Insert(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	rev := &domain.Review{ProductID: 7, UserID: "u-1234", Rating: 4, Comment: "solid"}

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(rev.ProductID, rev.UserID, rev.Rating, rev.Comment).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "updated"}).
			AddRow(int64(10), now, now, false))

	updated, err := repo.Upsert(context.Background(), rev)

	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, int64(10), rev.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The second submission keeps the row id and reports an update.
func TestReviewRepository_Upsert_Update(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	created := time.Now().UTC().Add(-time.Hour)
	now := time.Now().UTC()
	rev := &domain.Review{ProductID: 7, UserID: "u-1234", Rating: 2, Comment: "changed my mind"}

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(rev.ProductID, rev.UserID, rev.Rating, rev.Comment).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "updated"}).
			AddRow(int64(10), created, now, true))

	updated, err := repo.Upsert(context.Background(), rev)

	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, int64(10), rev.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Upsert_UnknownProduct(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rev := &domain.Review{ProductID: 99, UserID: "u-1234", Rating: 4}

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(rev.ProductID, rev.UserID, rev.Rating, rev.Comment).
		WillReturnError(fmt.Errorf("ERROR: insert or update on table \"reviews\" violates foreign key constraint (SQLSTATE 23503)"))

	_, err := repo.Upsert(context.Background(), rev)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProduct(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()

	mock.ExpectQuery("SELECT rv.id, rv.product_id").
		WithArgs(int64(7), 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "product_id", "user_id", "user_name", "rating", "comment", "created_at", "updated_at", "total_count",
		}).
			AddRow(int64(11), int64(7), "u-2", "Bob Jones", 5, "great", now, now, 2).
			AddRow(int64(10), int64(7), "u-1", "Alice Smith", 3, "ok", now.Add(-time.Hour), now.Add(-time.Hour), 2))

	reviews, total, err := repo.ListByProduct(context.Background(), 7, 1, 20)

	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Bob Jones", reviews[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Summary(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(4.3, 12))

	summary, err := repo.Summary(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), summary.ProductID)
	assert.Equal(t, 4.3, summary.AverageRating)
	assert.Equal(t, 12, summary.ReviewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// COUNT over an empty set is zero rows aggregated, not no rows returned.
func TestReviewRepository_Summary_NoReviews(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(int64(8)).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0))

	summary, err := repo.Summary(context.Background(), 8)

	require.NoError(t, err)
	assert.Zero(t, summary.AverageRating)
	assert.Zero(t, summary.ReviewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM reviews").
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
