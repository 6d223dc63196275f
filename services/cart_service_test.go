package services_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCartService(store *memStore) services.CartService {
	return services.NewCartService(&memCartRepo{s: store}, &memBoardgameRepo{s: store}, zap.NewNop())
}

func TestAddItem_RepeatedAddsIncrementOneLine(t *testing.T) {
	store := newMemStore()
	game := store.addBoardgame("Azul", "39.90")
	svc := newCartService(store)
	user := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := svc.AddItem(context.Background(), user, game.ID)
		require.NoError(t, err)
	}

	lines := store.cartLines(user)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

// Service-level wiring only: concurrent adds resolve to one cart and one
// line. Atomicity of the increment itself lives in the SQL upsert and is
// covered by TestCartAddLine_UpsertIncrements in the repository package.
func TestAddItem_ConcurrentAddsShareOneCartLine(t *testing.T) {
	store := newMemStore()
	game := store.addBoardgame("Azul", "39.90")
	svc := newCartService(store)
	user := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddItem(context.Background(), user, game.ID)
		}()
	}
	wg.Wait()

	lines := store.cartLines(user)
	require.Len(t, lines, 1)
	assert.Equal(t, 20, lines[0].Quantity)
}

func TestAddItem_UnknownBoardgame(t *testing.T) {
	svc := newCartService(newMemStore())

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "boardgame not found", apperrors.From(err).Message)
}

func TestRemoveItem_DecrementsThenDeletes(t *testing.T) {
	store := newMemStore()
	game := store.addBoardgame("Catan", "35.00")
	svc := newCartService(store)
	user := uuid.New()
	ctx := context.Background()

	_, _ = svc.AddItem(ctx, user, game.ID)
	_, _ = svc.AddItem(ctx, user, game.ID)

	view, err := svc.RemoveItem(ctx, user, game.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Quantity)

	view, err = svc.RemoveItem(ctx, user, game.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Empty(t, store.cartLines(user))
}

func TestRemoveItem_MissingLineIsNotFound(t *testing.T) {
	store := newMemStore()
	game := store.addBoardgame("Catan", "35.00")
	svc := newCartService(store)

	_, err := svc.RemoveItem(context.Background(), uuid.New(), game.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).Code)
	assert.Equal(t, "line not found", apperrors.From(err).Message)
}

func TestCartTotal_UsesCurrentPrices(t *testing.T) {
	store := newMemStore()
	azul := store.addBoardgame("Azul", "19.99")
	catan := store.addBoardgame("Catan", "35.005")
	svc := newCartService(store)
	user := uuid.New()
	ctx := context.Background()

	_, _ = svc.AddItem(ctx, user, azul.ID)
	_, _ = svc.AddItem(ctx, user, azul.ID)
	view, err := svc.AddItem(ctx, user, catan.ID)
	require.NoError(t, err)
	assert.Equal(t, "74.99", view.Total.String())
	assert.Equal(t, 3, view.ItemCount)

	cart, err := svc.GetOrCreateCart(ctx, user)
	require.NoError(t, err)
	total, err := svc.Total(ctx, cart)
	require.NoError(t, err)
	assert.Equal(t, "74.99", total.StringFixed(2))

	store.setPrice(azul.ID, "10.00")
	total, _ = svc.Total(ctx, cart)
	assert.Equal(t, "55.01", total.StringFixed(2))
}

func TestGetCart_EmptyCartTotalsZero(t *testing.T) {
	svc := newCartService(newMemStore())
	user := uuid.New()

	first, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "0.00", first.Total.String())
	assert.Empty(t, first.Lines)

	second, err := svc.GetCart(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
