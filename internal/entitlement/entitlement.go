// Package entitlement calcula o limite de jogos que cada usuário pode
// acompanhar. O limite é uma consulta de capacidade: base fixa mais as
// vagas extras de compras premium ainda vigentes, de modo que outro
// modelo de cobrança possa ser plugado sem tocar no resto do sistema.
package entitlement

import (
	"context"
	"fmt"
	"time"
)

// Store é o recorte do banco que o serviço de limites consome
type Store interface {
	CountWishlistItems(ctx context.Context, userID int64) (int, error)
	ActiveBonusSlots(ctx context.Context, userID int64, now time.Time) (int, error)
}

// Usage descreve a ocupação atual do limite de um usuário
type Usage struct {
	Limit      int
	Used       int
	CanAddMore bool
}

// Service responde consultas de limite de wishlist
type Service struct {
	store Store
	base  int
	now   func() time.Time
}

// NewService cria o serviço com o limite base dado
func NewService(store Store, baseLimit int) *Service {
	return &Service{
		store: store,
		base:  baseLimit,
		now:   time.Now,
	}
}

// Base retorna o limite base, sem bônus
func (s *Service) Base() int {
	return s.base
}

// Limit retorna o limite vigente do usuário: base + bônus não expirados
func (s *Service) Limit(ctx context.Context, userID int64) (int, error) {
	bonus, err := s.store.ActiveBonusSlots(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("erro ao calcular limite do usuário %d: %w", userID, err)
	}
	return s.base + bonus, nil
}

// Check retorna o limite, o uso atual e se o usuário ainda pode adicionar
// jogos à wishlist
func (s *Service) Check(ctx context.Context, userID int64) (Usage, error) {
	limit, err := s.Limit(ctx, userID)
	if err != nil {
		return Usage{}, err
	}

	used, err := s.store.CountWishlistItems(ctx, userID)
	if err != nil {
		return Usage{}, fmt.Errorf("erro ao contar uso do usuário %d: %w", userID, err)
	}

	return Usage{
		Limit:      limit,
		Used:       used,
		CanAddMore: used < limit,
	}, nil
}
