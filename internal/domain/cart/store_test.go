// internal/domain/cart/store_test.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory Repository with failure injection.
type fakeRepository struct {
	slots     map[string][]LineItem
	loadErr   error
	saveErr   error
	saveCount int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{slots: make(map[string][]LineItem)}
}

func (f *fakeRepository) Load(_ context.Context, slot string) ([]LineItem, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	items, ok := f.slots[slot]
	if !ok {
		return nil, nil
	}
	return items, nil
}

func (f *fakeRepository) Save(_ context.Context, slot string, items []LineItem) error {
	f.saveCount++
	if f.saveErr != nil {
		return f.saveErr
	}
	saved := make([]LineItem, len(items))
	copy(saved, items)
	f.slots[slot] = saved
	return nil
}

func (f *fakeRepository) Clear(_ context.Context, slot string) error {
	delete(f.slots, slot)
	return nil
}

func candidate(id, price string, stock int) Candidate {
	return Candidate{
		ID:            id,
		Name:          "Product " + id,
		Price:         decimal.RequireFromString(price),
		ImageURL:      "https://example.com/" + id + ".jpg",
		Unit:          "kg",
		StockQuantity: stock,
	}
}

func newTestStore(t *testing.T) (*Store, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	return NewStore(context.Background(), "test-session", repo, nil), repo
}

// assertDerived checks that Total and ItemCount match the item list.
func assertDerived(t *testing.T, state State) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, item := range state.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	assert.True(t, state.Total.Equal(total), "total %s drifted from items (want %s)", state.Total, total)
	assert.Equal(t, count, state.ItemCount)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "2.50", 5)})
	state := store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "2.50", 5)})

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p1", state.Items[0].ID)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, 2, state.ItemCount)
}

func TestAddItemClampsAtStockCeiling(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "3", 1)})
	state := store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "3", 1)})

	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.NewFromInt(3)))
}

func TestFourthAddStaysAtCeiling(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var state State
	for i := 0; i < 4; i++ {
		state = store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "10", 3)})
		assertDerived(t, state)
	}

	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.NewFromInt(30)))
}

func TestInsertionOrderPreserved(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "1", 5)})
	store.Dispatch(ctx, AddItem{Candidate: candidate("p2", "2", 5)})
	store.Dispatch(ctx, AddItem{Candidate: candidate("p3", "3", 5)})
	state := store.Dispatch(ctx, AddItem{Candidate: candidate("p2", "2", 5)})

	require.Len(t, state.Items, 3)
	assert.Equal(t, "p1", state.Items[0].ID)
	assert.Equal(t, "p2", state.Items[1].ID)
	assert.Equal(t, "p3", state.Items[2].ID)
	assert.Equal(t, 2, state.Items[1].Quantity)
}

func TestUpdateQuantityZeroRemovesItem(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "2", 5)})
	store.Dispatch(ctx, AddItem{Candidate: candidate("p2", "3", 5)})
	state := store.Dispatch(ctx, UpdateQuantity{ID: "p1", Quantity: 0})

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p2", state.Items[0].ID)
	assert.True(t, state.Total.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 1, state.ItemCount)
}

func TestUpdateQuantityNegativeRemovesItem(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "2", 5)})
	state := store.Dispatch(ctx, UpdateQuantity{ID: "p1", Quantity: -3})

	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
}

func TestUpdateQuantityCapIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "2", 4)})
	for _, requested := range []int{4, 5, 100} {
		state := store.Dispatch(ctx, UpdateQuantity{ID: "p1", Quantity: requested})
		assert.Equal(t, 4, state.Items[0].Quantity, "requested %d", requested)
		assertDerived(t, state)
	}
}

func TestUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "2", 5)})
	before := store.State()
	after := store.Dispatch(ctx, UpdateQuantity{ID: "ghost", Quantity: 3})

	assert.Equal(t, before.Items, after.Items)
	assert.True(t, before.Total.Equal(after.Total))
}

func TestRemoveUnknownItemFromEmptyCart(t *testing.T) {
	store, _ := newTestStore(t)

	state := store.Dispatch(context.Background(), RemoveItem{ID: "nonexistent"})

	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
	assert.Equal(t, 0, state.ItemCount)
}

func TestClearCartResetsEverything(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "2.50", 5)})
	store.Dispatch(ctx, AddItem{Candidate: candidate("p2", "1.25", 5)})
	state := store.Dispatch(ctx, ClearCart{})

	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
	assert.Equal(t, 0, state.ItemCount)

	// The persisted slot is gone as well.
	items, err := repo.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestLoadCartRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	loaded := []LineItem{
		{ID: "p1", Name: "Apples", Price: decimal.RequireFromString("1.20"), Unit: "kg", Quantity: 2, StockQuantity: 10},
		{ID: "p2", Name: "Milk", Price: decimal.RequireFromString("0.99"), Unit: "l", Quantity: 1, StockQuantity: 4},
	}
	state := store.Dispatch(context.Background(), LoadCart{Items: loaded})

	require.Equal(t, loaded, state.Items)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("3.39")))
	assert.Equal(t, 3, state.ItemCount)
}

func TestDerivedFieldsNeverDrift(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	intents := []Intent{
		AddItem{Candidate: candidate("p1", "2.50", 5)},
		AddItem{Candidate: candidate("p2", "0.75", 2)},
		AddItem{Candidate: candidate("p1", "2.50", 5)},
		UpdateQuantity{ID: "p2", Quantity: 9},
		RemoveItem{ID: "p1"},
		AddItem{Candidate: candidate("p3", "4.10", 1)},
		UpdateQuantity{ID: "p3", Quantity: 0},
		ClearCart{},
		AddItem{Candidate: candidate("p4", "1.00", 3)},
	}

	for i, intent := range intents {
		state := store.Dispatch(ctx, intent)
		assertDerived(t, state)

		for _, item := range state.Items {
			assert.GreaterOrEqual(t, item.Quantity, 1, "step %d", i)
			if item.StockQuantity > 0 {
				assert.LessOrEqual(t, item.Quantity, item.StockQuantity, "step %d", i)
			}
		}
	}
}

func TestRehydrationRestoresPersistedItems(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.slots["session-a"] = []LineItem{
		{ID: "p1", Price: decimal.RequireFromString("2.00"), Quantity: 3, StockQuantity: 5},
	}

	store := NewStore(ctx, "session-a", repo, nil)

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.NewFromInt(6)))
}

func TestRehydrationFailureStartsEmpty(t *testing.T) {
	repo := newFakeRepository()
	repo.loadErr = errors.New("corrupt payload")

	store := NewStore(context.Background(), "session-a", repo, nil)

	state := store.State()
	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
}

func TestEveryMutationPersistsCurrentItems(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	store.Dispatch(ctx, AddItem{Candidate: candidate("p1", "2.50", 5)})
	store.Dispatch(ctx, UpdateQuantity{ID: "p1", Quantity: 4})

	assert.Equal(t, 2, repo.saveCount)
	persisted, err := repo.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.Equal(t, store.State().Items, persisted)
}

func TestWriteFailureDoesNotAffectState(t *testing.T) {
	repo := newFakeRepository()
	repo.saveErr = fmt.Errorf("storage unavailable")
	store := NewStore(context.Background(), "test-session", repo, nil)

	state := store.Dispatch(context.Background(), AddItem{Candidate: candidate("p1", "2.50", 5)})

	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.ItemCount)
}

func TestNilRepositoryIsMemoryOnly(t *testing.T) {
	store := NewStore(context.Background(), "test-session", nil, nil)

	state := store.Dispatch(context.Background(), AddItem{Candidate: candidate("p1", "1.00", 2)})

	require.Len(t, state.Items, 1)
}
