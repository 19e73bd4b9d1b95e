// internal/domain/cart/store.go
package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Repository persists the cart item list to a durable key-value slot.
// The slot holds a JSON array of line items; derived fields are excluded.
type Repository interface {
	// Load returns the persisted items for a slot. A missing slot returns
	// (nil, nil); a malformed payload returns an error.
	Load(ctx context.Context, slot string) ([]LineItem, error)
	// Save replaces the slot contents with the given items.
	Save(ctx context.Context, slot string, items []LineItem) error
	// Clear removes the slot entirely.
	Clear(ctx context.Context, slot string) error
}

// Store owns the cart state for one session slot. It is the sole writer of
// that state: readers take snapshots via State, mutations go through
// Dispatch. Persistence is best-effort; storage failures never fail a
// state transition.
type Store struct {
	slot   string
	state  State
	repo   Repository
	logger *logrus.Logger
}

// NewStore creates a store for the given slot and rehydrates it from the
// repository. A missing slot or an unreadable payload starts the cart
// empty; the failure is logged and not surfaced.
func NewStore(ctx context.Context, slot string, repo Repository, logger *logrus.Logger) *Store {
	s := &Store{
		slot:   slot,
		state:  emptyState(),
		repo:   repo,
		logger: logger,
	}
	s.rehydrate(ctx)
	return s
}

// State returns the current cart snapshot.
func (s *Store) State() State {
	return s.state
}

// Dispatch applies an intent to the cart and persists the resulting item
// list. It returns the new state. Intents are total functions over
// well-formed input: unknown ids and out-of-range quantities degrade to
// no-ops or clamps, never errors.
func (s *Store) Dispatch(ctx context.Context, intent Intent) State {
	s.state = reduce(s.state, intent)

	if _, cleared := intent.(ClearCart); cleared {
		s.clearSlot(ctx)
	} else {
		s.persist(ctx)
	}

	return s.state
}

// reduce is the single transition function for all cart intents.
func reduce(state State, intent Intent) State {
	switch in := intent.(type) {
	case AddItem:
		for i, item := range state.Items {
			if item.ID != in.Candidate.ID {
				continue
			}
			items := copyItems(state.Items)
			items[i].Quantity = clampQuantity(item.Quantity+1, item.StockQuantity)
			return recalculate(items)
		}
		items := append(copyItems(state.Items), LineItem{
			ID:            in.Candidate.ID,
			Name:          in.Candidate.Name,
			Price:         in.Candidate.Price,
			ImageURL:      in.Candidate.ImageURL,
			Unit:          in.Candidate.Unit,
			Quantity:      1,
			StockQuantity: in.Candidate.StockQuantity,
		})
		return recalculate(items)

	case RemoveItem:
		items := make([]LineItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID != in.ID {
				items = append(items, item)
			}
		}
		return recalculate(items)

	case UpdateQuantity:
		if in.Quantity <= 0 {
			return reduce(state, RemoveItem{ID: in.ID})
		}
		items := copyItems(state.Items)
		for i, item := range items {
			if item.ID == in.ID {
				items[i].Quantity = clampQuantity(in.Quantity, item.StockQuantity)
				break
			}
		}
		return recalculate(items)

	case ClearCart:
		return emptyState()

	case LoadCart:
		return recalculate(copyItems(in.Items))

	default:
		return state
	}
}

// recalculate rebuilds the derived fields from the item list.
func recalculate(items []LineItem) State {
	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	return State{Items: items, Total: total, ItemCount: count}
}

// clampQuantity caps a requested quantity at the stock ceiling captured at
// add-time. A ceiling of zero is not enforced here; items with zero stock
// are rejected upstream before they reach the cart.
func clampQuantity(quantity, stockQuantity int) int {
	if stockQuantity > 0 && quantity > stockQuantity {
		return stockQuantity
	}
	return quantity
}

func copyItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func emptyState() State {
	return State{Items: []LineItem{}, Total: decimal.Zero, ItemCount: 0}
}

func (s *Store) rehydrate(ctx context.Context) {
	if s.repo == nil {
		return
	}

	items, err := s.repo.Load(ctx, s.slot)
	if err != nil {
		s.log().WithError(err).WithField("slot", s.slot).Warn("Failed to load persisted cart, starting empty")
		return
	}
	if items == nil {
		return
	}

	s.state = reduce(s.state, LoadCart{Items: items})
}

func (s *Store) persist(ctx context.Context) {
	if s.repo == nil {
		return
	}

	if err := s.repo.Save(ctx, s.slot, s.state.Items); err != nil {
		// Best-effort: a failed write leaves the last persisted snapshot in
		// place and the in-memory state authoritative.
		s.log().WithError(err).WithField("slot", s.slot).Warn("Failed to persist cart")
	}
}

func (s *Store) clearSlot(ctx context.Context) {
	if s.repo == nil {
		return
	}

	if err := s.repo.Clear(ctx, s.slot); err != nil {
		s.log().WithError(err).WithField("slot", s.slot).Warn("Failed to clear persisted cart")
	}
}

func (s *Store) log() *logrus.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logrus.StandardLogger()
}
