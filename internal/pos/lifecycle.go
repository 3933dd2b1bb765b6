package pos

import (
	"fmt"

	"balcao/internal/models"
)

// StockEffect is what a status change does to product stock.
type StockEffect int

const (
	StockNone StockEffect = iota
	StockRestore
)

func (e StockEffect) String() string {
	switch e {
	case StockNone:
		return "none"
	case StockRestore:
		return "restore"
	}
	return "unknown"
}

type transitionKey struct {
	from, to models.OrderStatus
}

// transitions is the complete table of allowed status changes. Completed and
// cancelled are terminal.
var transitions = map[transitionKey]StockEffect{
	{models.StatusPending, models.StatusPickedUp}:   StockNone,
	{models.StatusPending, models.StatusCompleted}:  StockNone,
	{models.StatusPending, models.StatusCancelled}:  StockRestore,
	{models.StatusPickedUp, models.StatusCompleted}: StockNone,
	{models.StatusPickedUp, models.StatusCancelled}: StockRestore,
}

// Transition validates from -> to and returns its stock effect.
func Transition(from, to models.OrderStatus) (StockEffect, error) {
	effect, ok := transitions[transitionKey{from, to}]
	if !ok {
		return StockNone, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return effect, nil
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to models.OrderStatus) bool {
	_, ok := transitions[transitionKey{from, to}]
	return ok
}

// AllowedTransitions lists the statuses reachable from s.
func AllowedTransitions(s models.OrderStatus) []models.OrderStatus {
	out := []models.OrderStatus{}
	for _, to := range models.AllStatuses {
		if CanTransition(s, to) {
			out = append(out, to)
		}
	}
	return out
}

// RestoresStockOnDelete reports whether deleting an order in status s must
// give its reserved stock back. Cancelled orders were already restored and
// completed orders consumed their stock.
func RestoresStockOnDelete(s models.OrderStatus) bool {
	return s != models.StatusCompleted && s != models.StatusCancelled
}

// ParseStatus converts a raw string into a known status.
func ParseStatus(raw string) (models.OrderStatus, error) {
	s := models.OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}
