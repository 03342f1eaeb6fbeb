package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ddkspices/storefront/internal/api/middleware"
	"github.com/ddkspices/storefront/internal/models"
	repository "github.com/ddkspices/storefront/internal/repositories"
)

// CartService is the sole owner of the cart: an insertion-ordered sequence of
// lines with at most one line per product id and every quantity >= 1. All
// reads and writes go through it.
//
// Each mutation updates in-memory state first, then writes the entire cart to
// the persistence medium. A persistence failure is logged and never reverts
// or blocks the mutation; in-memory state stays authoritative for the session.
type CartService struct {
	repo      repository.CartRepository
	signalTTL time.Duration

	mu         sync.Mutex
	lines      []models.CartLine
	addedID    int
	addedTimer *time.Timer
}

func NewCartService(repo repository.CartRepository, signalTTL time.Duration) *CartService {
	return &CartService{repo: repo, signalTTL: signalTTL}
}

// Initialize performs the one startup read of the persisted snapshot. Every
// failure mode (storage unreachable, snapshot absent, snapshot malformed)
// collapses into "start empty"; nothing here may ever stop the shopping flow.
// Structural validation of persisted data happens only here.
func (s *CartService) Initialize(ctx context.Context) {
	logger := middleware.LoggerFromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil

	snapshot, present, err := s.repo.Load(ctx)
	if err != nil {
		logger.Error("Failed to read persisted cart, starting empty", slog.String("error", err.Error()))
		return
	}

	if !present {
		return
	}

	var lines []models.CartLine
	if err := json.Unmarshal(snapshot, &lines); err != nil {
		logger.Error("Discarding malformed persisted cart", slog.String("error", err.Error()))
		return
	}

	if !validLines(lines) {
		logger.Error("Discarding persisted cart with invalid lines")
		return
	}

	s.lines = lines
}

// validLines rejects foreign data that decodes but breaks cart invariants.
func validLines(lines []models.CartLine) bool {
	seen := make(map[int]bool, len(lines))

	for _, line := range lines {
		if line.Quantity < 1 || seen[line.ID] {
			return false
		}

		seen[line.ID] = true
	}

	return true
}

// AddItem increments the existing line for the product or appends a new one
// at the end of the sequence. It also arms the transient just-added signal,
// which auto-expires and is never persisted.
func (s *CartService) AddItem(ctx context.Context, product models.Product) models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false

	for i := range s.lines {
		if s.lines[i].ID == product.ID {
			s.lines[i].Quantity++
			found = true

			break
		}
	}

	if !found {
		s.lines = append(s.lines, models.CartLine{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Weight:   product.Weight,
			Quantity: 1,
		})
	}

	s.armAddedSignalLocked(product.ID)
	s.persistLocked(ctx)

	return s.viewLocked()
}

// ChangeQuantity applies delta to the line's quantity, floored at 1: a line
// can never reach zero through this operation, only RemoveItem deletes lines.
// An unknown id is a silent no-op.
func (s *CartService) ChangeQuantity(ctx context.Context, id, delta int) models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines[i].Quantity = max(1, s.lines[i].Quantity+delta)
			s.persistLocked(ctx)

			break
		}
	}

	return s.viewLocked()
}

// RemoveItem deletes the line with the given id, preserving the relative
// order of the remaining lines. An unknown id is a silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, id int) models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persistLocked(ctx)

			break
		}
	}

	return s.viewLocked()
}

// View returns the current renderable snapshot of the cart.
func (s *CartService) View() models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

// Lines returns a copy of the current line sequence.
func (s *CartService) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.linesLocked()
}

// Totals derives the aggregate item count and amount. Pure read, no side
// effects on cart state.
func (s *CartService) Totals() models.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalsLocked()
}

// JustAdded reports the product id of the most recent AddItem while the
// signal is armed.
func (s *CartService) JustAdded() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addedID, s.addedID != 0
}

func (s *CartService) viewLocked() models.CartView {
	return models.CartView{
		Lines:     s.linesLocked(),
		Totals:    s.totalsLocked(),
		JustAdded: s.addedID,
	}
}

func (s *CartService) linesLocked() []models.CartLine {
	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)

	return lines
}

func (s *CartService) totalsLocked() models.CartTotals {
	var totals models.CartTotals

	for _, line := range s.lines {
		totals.ItemCount += line.Quantity
		totals.Amount += parsePrice(line.Price) * line.Quantity
	}

	return totals
}

// armAddedSignalLocked replaces the pending expiry timer rather than stacking
// a second one, so a stale expiry can never clear a newer signal.
func (s *CartService) armAddedSignalLocked(id int) {
	if s.addedTimer != nil {
		s.addedTimer.Stop()
	}

	s.addedID = id

	var t *time.Timer
	t = time.AfterFunc(s.signalTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.addedTimer == t {
			s.addedID = 0
			s.addedTimer = nil
		}
	})

	s.addedTimer = t
}

func (s *CartService) persistLocked(ctx context.Context) {
	logger := middleware.LoggerFromContext(ctx)

	snapshot, err := json.Marshal(s.lines)
	if err != nil {
		logger.Error("Failed to encode cart snapshot", slog.String("error", err.Error()))
		return
	}

	if err := s.repo.Save(ctx, snapshot); err != nil {
		logger.Error("Failed to persist cart snapshot", slog.String("error", err.Error()))
	}
}

// parsePrice extracts the numeric magnitude from a display price like "₹150"
// by stripping everything that is not a digit. An unparsable price
// contributes zero rather than breaking a render.
func parsePrice(price string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, price)

	if digits == "" {
		slog.Warn("Unparsable price on cart line", slog.String("price", price))
		return 0
	}

	amount, err := strconv.Atoi(digits)
	if err != nil {
		slog.Warn("Unparsable price on cart line", slog.String("price", price), slog.String("error", err.Error()))
		return 0
	}

	return amount
}
