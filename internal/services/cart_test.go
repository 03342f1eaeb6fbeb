package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ddkspices/storefront/internal/models"
	repository "github.com/ddkspices/storefront/internal/repositories"
	service "github.com/ddkspices/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lalMirch   = models.Product{ID: 1, Name: "Lal Mirch Powder", Price: "₹150", Weight: "500g"}
	haldi      = models.Product{ID: 2, Name: "Haldi Powder", Price: "₹120", Weight: "500g"}
	blackLemon = models.Product{ID: 4, Name: "Black Lemon Powder", Price: "₹220", Weight: "500g"}
)

// failingRepo simulates a persistence medium that is down for writes.
type failingRepo struct{}

func (f *failingRepo) Load(_ context.Context) ([]byte, bool, error) {
	return nil, false, nil
}

func (f *failingRepo) Save(_ context.Context, _ []byte) error {
	return errors.New("storage offline")
}

func newCartService(repo repository.CartRepository) *service.CartService {
	return service.NewCartService(repo, 2*time.Second)
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Re-adding the same product accumulates one line", func(t *testing.T) {
		// Arrange
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)

		// Act
		cartService.AddItem(ctx, lalMirch)
		cartService.AddItem(ctx, lalMirch)
		view := cartService.AddItem(ctx, lalMirch)

		// Assert
		require.Len(t, view.Lines, 1)
		assert.Equal(t, lalMirch.ID, view.Lines[0].ID)
		assert.Equal(t, 3, view.Lines[0].Quantity)
	})

	t.Run("New lines append at the end, not sorted", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)

		cartService.AddItem(ctx, blackLemon)
		view := cartService.AddItem(ctx, lalMirch)

		require.Len(t, view.Lines, 2)
		assert.Equal(t, blackLemon.ID, view.Lines[0].ID)
		assert.Equal(t, lalMirch.ID, view.Lines[1].ID)
	})

	t.Run("Line copies catalog fields at creation time", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)

		view := cartService.AddItem(ctx, haldi)

		require.Len(t, view.Lines, 1)
		assert.Equal(t, "Haldi Powder", view.Lines[0].Name)
		assert.Equal(t, "₹120", view.Lines[0].Price)
		assert.Equal(t, "500g", view.Lines[0].Weight)
	})

	t.Run("Mutation survives a persistence failure", func(t *testing.T) {
		cartService := newCartService(&failingRepo{})
		cartService.Initialize(ctx)

		view := cartService.AddItem(ctx, lalMirch)

		require.Len(t, view.Lines, 1)
		assert.Equal(t, 1, view.Lines[0].Quantity)
	})
}

func TestJustAddedSignal(t *testing.T) {
	ctx := context.Background()

	t.Run("Armed by AddItem and keyed by product id", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)

		cartService.AddItem(ctx, lalMirch)
		view := cartService.AddItem(ctx, haldi)

		id, armed := cartService.JustAdded()
		assert.True(t, armed)
		assert.Equal(t, haldi.ID, id)
		assert.Equal(t, haldi.ID, view.JustAdded)
	})

	t.Run("Expires after the configured duration", func(t *testing.T) {
		cartService := service.NewCartService(repository.NewMemoryRepo(), 20*time.Millisecond)
		cartService.Initialize(ctx)

		cartService.AddItem(ctx, lalMirch)

		assert.Eventually(t, func() bool {
			_, armed := cartService.JustAdded()
			return !armed
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("A second add replaces the pending expiry instead of stacking", func(t *testing.T) {
		cartService := service.NewCartService(repository.NewMemoryRepo(), 60*time.Millisecond)
		cartService.Initialize(ctx)

		cartService.AddItem(ctx, lalMirch)
		time.Sleep(40 * time.Millisecond)
		cartService.AddItem(ctx, haldi)

		// The first timer would have fired by now; the signal must still be
		// armed for the second product.
		time.Sleep(30 * time.Millisecond)

		id, armed := cartService.JustAdded()
		assert.True(t, armed)
		assert.Equal(t, haldi.ID, id)
	})

	t.Run("Signal is not persisted", func(t *testing.T) {
		repo := repository.NewMemoryRepo()
		cartService := newCartService(repo)
		cartService.Initialize(ctx)

		cartService.AddItem(ctx, lalMirch)

		snapshot, present, err := repo.Load(ctx)
		require.NoError(t, err)
		require.True(t, present)
		assert.NotContains(t, string(snapshot), "just_added")
	})
}

func TestChangeQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Increment and decrement", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)
		cartService.AddItem(ctx, lalMirch)

		view := cartService.ChangeQuantity(ctx, lalMirch.ID, 2)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, 3, view.Lines[0].Quantity)

		view = cartService.ChangeQuantity(ctx, lalMirch.ID, -1)
		assert.Equal(t, 2, view.Lines[0].Quantity)
	})

	t.Run("Quantity floors at one and the line survives", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)
		cartService.AddItem(ctx, lalMirch)

		view := cartService.ChangeQuantity(ctx, lalMirch.ID, -1)

		require.Len(t, view.Lines, 1)
		assert.Equal(t, 1, view.Lines[0].Quantity)

		// Large negative deltas floor the same way.
		view = cartService.ChangeQuantity(ctx, lalMirch.ID, -100)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, 1, view.Lines[0].Quantity)
	})

	t.Run("Unknown id is a silent no-op", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)
		cartService.AddItem(ctx, lalMirch)

		before, err := json.Marshal(cartService.Lines())
		require.NoError(t, err)

		cartService.ChangeQuantity(ctx, 999, 1)

		after, err := json.Marshal(cartService.Lines())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Removing one line leaves the others untouched", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)
		cartService.AddItem(ctx, lalMirch)
		cartService.AddItem(ctx, haldi)
		cartService.AddItem(ctx, blackLemon)
		cartService.ChangeQuantity(ctx, blackLemon.ID, 4)

		view := cartService.RemoveItem(ctx, haldi.ID)

		require.Len(t, view.Lines, 2)
		assert.Equal(t, lalMirch.ID, view.Lines[0].ID)
		assert.Equal(t, 1, view.Lines[0].Quantity)
		assert.Equal(t, blackLemon.ID, view.Lines[1].ID)
		assert.Equal(t, 5, view.Lines[1].Quantity)
		assert.Equal(t, "₹220", view.Lines[1].Price)
	})

	t.Run("Re-adding an existing product keeps its original position", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)

		// Add A, B, C, remove B, re-add A: order must stay [A, C].
		cartService.AddItem(ctx, lalMirch)
		cartService.AddItem(ctx, haldi)
		cartService.AddItem(ctx, blackLemon)
		cartService.RemoveItem(ctx, haldi.ID)
		view := cartService.AddItem(ctx, lalMirch)

		require.Len(t, view.Lines, 2)
		assert.Equal(t, lalMirch.ID, view.Lines[0].ID)
		assert.Equal(t, 2, view.Lines[0].Quantity)
		assert.Equal(t, blackLemon.ID, view.Lines[1].ID)
	})

	t.Run("Unknown id is a silent no-op", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)
		cartService.AddItem(ctx, lalMirch)

		before, err := json.Marshal(cartService.Lines())
		require.NoError(t, err)

		cartService.RemoveItem(ctx, 999)

		after, err := json.Marshal(cartService.Lines())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("Item count and amount", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)

		// ₹150 x 2 + ₹220 x 1 = ₹520, three items.
		cartService.AddItem(ctx, lalMirch)
		cartService.AddItem(ctx, lalMirch)
		cartService.AddItem(ctx, blackLemon)

		totals := cartService.Totals()
		assert.Equal(t, 3, totals.ItemCount)
		assert.Equal(t, 520, totals.Amount)
	})

	t.Run("Empty cart totals to zero", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)

		totals := cartService.Totals()
		assert.Equal(t, 0, totals.ItemCount)
		assert.Equal(t, 0, totals.Amount)
	})

	t.Run("Unparsable price contributes zero", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())
		cartService.Initialize(ctx)

		cartService.AddItem(ctx, models.Product{ID: 7, Name: "Mystery Masala", Price: "₹free", Weight: "500g"})
		cartService.AddItem(ctx, lalMirch)

		totals := cartService.Totals()
		assert.Equal(t, 2, totals.ItemCount)
		assert.Equal(t, 150, totals.Amount)
	})
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("Absent snapshot starts empty", func(t *testing.T) {
		cartService := newCartService(repository.NewMemoryRepo())

		cartService.Initialize(ctx)

		assert.Empty(t, cartService.Lines())
	})

	t.Run("Round-trips a persisted cart", func(t *testing.T) {
		repo := repository.NewMemoryRepo()

		first := newCartService(repo)
		first.Initialize(ctx)
		first.AddItem(ctx, lalMirch)
		first.AddItem(ctx, haldi)
		first.ChangeQuantity(ctx, lalMirch.ID, 1)

		// A fresh service over the same medium sees the same cart.
		second := newCartService(repo)
		second.Initialize(ctx)

		assert.Equal(t, first.Lines(), second.Lines())
		assert.Equal(t, first.Totals(), second.Totals())
	})

	t.Run("Malformed snapshot recovers to empty", func(t *testing.T) {
		repo := repository.NewMemoryRepo()
		require.NoError(t, repo.Save(ctx, []byte("{not json")))

		cartService := newCartService(repo)
		cartService.Initialize(ctx)

		assert.Empty(t, cartService.Lines())
	})

	t.Run("Foreign data violating invariants recovers to empty", func(t *testing.T) {
		repo := repository.NewMemoryRepo()

		// Parses fine but a quantity of zero is never a valid line.
		require.NoError(t, repo.Save(ctx, []byte(`[{"id":1,"name":"x","price":"₹1","weight":"1g","quantity":0}]`)))

		cartService := newCartService(repo)
		cartService.Initialize(ctx)

		assert.Empty(t, cartService.Lines())
	})

	t.Run("Duplicate ids in snapshot recover to empty", func(t *testing.T) {
		repo := repository.NewMemoryRepo()
		require.NoError(t, repo.Save(ctx, []byte(`[{"id":1,"quantity":1},{"id":1,"quantity":2}]`)))

		cartService := newCartService(repo)
		cartService.Initialize(ctx)

		assert.Empty(t, cartService.Lines())
	})

	t.Run("Storage read failure starts empty", func(t *testing.T) {
		cartService := newCartService(&loadFailingRepo{})

		cartService.Initialize(ctx)

		assert.Empty(t, cartService.Lines())
	})
}

type loadFailingRepo struct{}

func (f *loadFailingRepo) Load(_ context.Context) ([]byte, bool, error) {
	return nil, false, errors.New("storage offline")
}

func (f *loadFailingRepo) Save(_ context.Context, _ []byte) error {
	return nil
}

func TestPersistenceFormat(t *testing.T) {
	ctx := context.Background()

	t.Run("Snapshot uses the exact wire field names", func(t *testing.T) {
		repo := repository.NewMemoryRepo()
		cartService := newCartService(repo)
		cartService.Initialize(ctx)

		cartService.AddItem(ctx, lalMirch)

		snapshot, present, err := repo.Load(ctx)
		require.NoError(t, err)
		require.True(t, present)

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(snapshot, &decoded))
		require.Len(t, decoded, 1)

		for _, field := range []string{"id", "name", "price", "weight", "quantity"} {
			assert.Contains(t, decoded[0], field)
		}

		assert.Equal(t, "₹150", decoded[0]["price"])
	})

	t.Run("Every mutation persists the full cart", func(t *testing.T) {
		repo := repository.NewMemoryRepo()
		cartService := newCartService(repo)
		cartService.Initialize(ctx)

		cartService.AddItem(ctx, lalMirch)
		cartService.AddItem(ctx, haldi)
		cartService.RemoveItem(ctx, lalMirch.ID)

		snapshot, present, err := repo.Load(ctx)
		require.NoError(t, err)
		require.True(t, present)

		var lines []models.CartLine
		require.NoError(t, json.Unmarshal(snapshot, &lines))
		require.Len(t, lines, 1)
		assert.Equal(t, haldi.ID, lines[0].ID)
	})
}
