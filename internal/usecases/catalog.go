package usecases

import (
	domainerrors "hive-economy.backend/internal/domain/errors"
)

// Gift is one fixed-price catalog item senders can gift to creators
type Gift struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Price int64  `json:"price"`
}

// giftCatalog is the fixed gift lineup. Prices are in cash minor units.
var giftCatalog = []Gift{
	{ID: "coffee", Name: "Café", Emoji: "☕", Price: 100},
	{ID: "poutine", Name: "Poutine", Emoji: "🍟", Price: 500},
	{ID: "bee", Name: "Abeille", Emoji: "🐝", Price: 1000},
	{ID: "fleur_de_lys", Name: "Fleur de lys", Emoji: "⚜️", Price: 2500},
	{ID: "golden_hive", Name: "Ruche dorée", Emoji: "🏆", Price: 10000},
}

// GiftCatalog returns the full gift lineup
func GiftCatalog() []Gift {
	out := make([]Gift, len(giftCatalog))
	copy(out, giftCatalog)
	return out
}

// GiftByID looks up a catalog gift
func GiftByID(id string) (*Gift, error) {
	for i := range giftCatalog {
		if giftCatalog[i].ID == id {
			return &giftCatalog[i], nil
		}
	}
	return nil, domainerrors.ErrNotFound
}
