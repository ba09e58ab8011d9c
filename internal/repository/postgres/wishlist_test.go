package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

func newWishlistTestFixture(t *testing.T) (*WishlistRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewWishlistRepository(mock)
	return repo, mock
}

func TestWishlistRepository_GetOrCreate(t *testing.T) {
	repo, mock := newWishlistTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO wishlists").
		WithArgs("u-1234").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at"}).
			AddRow(int64(5), "u-1234", now))
	mock.ExpectQuery("SELECT wi.id, wi.product_id").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "name", "price_cents", "image_url", "created_at"}).
			AddRow(int64(1), int64(7), "Keyboard", int64(4999), "", now))

	wl, err := repo.GetOrCreate(context.Background(), "u-1234")

	require.NoError(t, err)
	assert.Equal(t, int64(5), wl.ID)
	require.Len(t, wl.Items, 1)
	assert.Equal(t, "Keyboard", wl.Items[0].ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlistRepository_AddItem_Fresh(t *testing.T) {
	repo, mock := newWishlistTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO wishlist_items").
		WithArgs(int64(5), int64(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	added, err := repo.AddItem(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.True(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ON CONFLICT DO NOTHING reports zero rows for an already-present product.
func TestWishlistRepository_AddItem_AlreadyPresent(t *testing.T) {
	repo, mock := newWishlistTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO wishlist_items").
		WithArgs(int64(5), int64(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	added, err := repo.AddItem(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlistRepository_RemoveItem_NotFound(t *testing.T) {
	repo, mock := newWishlistTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM wishlist_items").
		WithArgs(int64(5), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.RemoveItem(context.Background(), 5, 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
