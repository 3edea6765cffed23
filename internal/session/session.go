// Package session guarda o estado transitório de conversa de cada
// usuário (resultados de busca, entrada pendente) com expiração por TTL,
// para que a memória do processo não cresça sem limite.
package session

import (
	"context"
	"sync"
	"time"

	"bot-jogos/internal/provider"
)

// Session é o estado transitório de um usuário entre mensagens
type Session struct {
	// Últimos resultados de busca do /add, na ordem apresentada
	Results []provider.GameInfo

	// ID do item da wishlist aguardando um valor de preço alvo
	// (0 = nenhuma entrada pendente)
	PendingThresholdItem int64
}

type entry struct {
	session   Session
	expiresAt time.Time
}

// Store mantém as sessões em memória, chaveadas pelo Telegram ID
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]entry
}

// NewStore cria um Store com o TTL dado
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[int64]entry),
	}
}

// Get retorna a sessão do usuário, ou zero se não existir ou já expirou
func (s *Store) Get(telegramID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[telegramID]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.entries, telegramID)
		return Session{}, false
	}
	return e.session, true
}

// Put grava a sessão do usuário, renovando o TTL
func (s *Store) Put(telegramID int64, session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[telegramID] = entry{
		session:   session,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Delete descarta a sessão do usuário
func (s *Store) Delete(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, telegramID)
}

// Len retorna quantas sessões estão guardadas (expiradas incluídas até a
// próxima limpeza)
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run remove sessões expiradas periodicamente até o contexto ser
// cancelado. Deve ser chamado em uma goroutine própria
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purge(time.Now())
		}
	}
}

func (s *Store) purge(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
