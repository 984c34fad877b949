package inventory

import (
	"context"
	"inventra-backend/domain"
	"inventra-backend/entities"
)

// Snapshot is a point-in-time, read-only copy of the ledger. Listing every recipe's
// availability against one Snapshot keeps the reports mutually consistent.
type Snapshot struct {
	byKey map[string]*entities.InventoryItem
	items []*entities.InventoryItem
}

func NewSnapshot(items []*entities.InventoryItem) *Snapshot {
	s := &Snapshot{
		byKey: make(map[string]*entities.InventoryItem, len(items)),
		items: make([]*entities.InventoryItem, 0, len(items)),
	}
	for _, item := range items {
		c := *item
		s.byKey[MatchKey(c.Name, c.Unit)] = &c
		s.items = append(s.items, &c)
	}
	return s
}

func (s *Snapshot) FindByNameAndUnit(ctx context.Context, name string, unit domain.Unit) (*entities.InventoryItem, bool, error) {
	item, ok := s.byKey[MatchKey(name, unit)]
	if !ok {
		return nil, false, nil
	}
	c := *item
	return &c, true, nil
}

func (s *Snapshot) Items() []*entities.InventoryItem {
	out := make([]*entities.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		c := *item
		out = append(out, &c)
	}
	return out
}
