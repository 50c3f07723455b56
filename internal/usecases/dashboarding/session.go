package dashboarding

import (
	"errors"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

const maxIDAttempts = 5

var ErrSessionIDExhausted = errors.New("não foi possível gerar um ID de sessão único")

// Session guarda o estado de um usuário do painel: a tabela carregada,
// a cópia em edição e os filtros aplicados por último.
// Requisições para a mesma sessão são serializadas pelo mutex.
type Session struct {
	ID string

	mu         sync.Mutex
	table      *domain.SalesTable
	edited     *domain.SalesTable
	filters    *domain.SalesFilters
	createdAt  time.Time
	lastAccess time.Time
}

// SessionInfo é o resumo de uma sessão recém aberta
type SessionInfo struct {
	ID        string                `json:"id"`
	Rows      int                   `json:"rows"`
	Columns   []string              `json:"columns"`
	Defaults  *domain.FilterOptions `json:"defaults"`
	CreatedAt time.Time             `json:"created_at"`
}

// NewSession cria uma sessão sobre a tabela carregada. A cópia editável começa igual à tabela.
func NewSession(id string, table *domain.SalesTable, now time.Time) *Session {
	return &Session{
		ID:         id,
		table:      table,
		edited:     table.Clone(),
		createdAt:  now,
		lastAccess: now,
	}
}

func (s *Session) touch(now time.Time) {
	s.lastAccess = now
}

// LastAccess retorna o horário do último uso da sessão
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// MemorySessionStore mantém as sessões em memória, indexadas pelo ID
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

// ErrSessionExists é retornado quando já existe uma sessão com o mesmo ID
var ErrSessionExists = errors.New("sessão já existe")

func (m *MemorySessionStore) Add(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return ErrSessionExists
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *MemorySessionStore) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	return session, ok
}

func (m *MemorySessionStore) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// DeleteIdle remove as sessões sem uso desde before. O lock de cada sessão é
// consultado fora do lock do store, então uma sessão ocupada não trava Get das demais.
func (m *MemorySessionStore) DeleteIdle(before time.Time) []string {
	m.mu.RLock()
	candidates := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		candidates = append(candidates, session)
	}
	m.mu.RUnlock()

	idle := make([]*Session, 0)
	for _, session := range candidates {
		if session.LastAccess().Before(before) {
			idle = append(idle, session)
		}
	}

	if len(idle) == 0 {
		return []string{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := make([]string, 0, len(idle))
	for _, session := range idle {
		if current, ok := m.sessions[session.ID]; ok && current == session {
			delete(m.sessions, session.ID)
			removed = append(removed, session.ID)
		}
	}
	return removed
}

func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// newSessionID gera um ID curto que ainda não está em uso no store
func newSessionID(store SessionStore) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := utils.GenerateID()
		if err != nil {
			return "", err
		}
		if _, exists := store.Get(id); !exists {
			return id, nil
		}
	}
	return "", ErrSessionIDExhausted
}
