package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/utils"
)

var (
	ErrSessionNotFound  = errors.New("pos session not found")
	ErrSessionForbidden = errors.New("pos session belongs to another cashier")
)

// SessionManager keeps the open POS sessions of this server in memory.
type SessionManager struct {
	catalog   pos.CatalogSource
	submitter pos.OrderSubmitter
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*pos.Session
}

func NewSessionManager(catalog pos.CatalogSource, submitter pos.OrderSubmitter) *SessionManager {
	return &SessionManager{
		catalog:   catalog,
		submitter: submitter,
		now:       time.Now,
		sessions:  make(map[string]*pos.Session),
	}
}

// Submitter is where paid orders of every session are sent.
func (m *SessionManager) Submitter() pos.OrderSubmitter {
	return m.submitter
}

// Open snapshots the active catalog into a new session for the cashier.
func (m *SessionManager) Open(ctx context.Context, creds pos.Credentials) (*pos.Session, error) {
	products, err := m.catalog.ActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	session := pos.NewSession(uuid.NewString(), creds, products, m.now())

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	utils.InfoLogger.WithField("session", session.ID).Infof("POS session opened by %s with %d products", creds.Cashier.Username, len(products))
	return session, nil
}

// Get returns the session if userID owns it. Admins may access any session.
func (m *SessionManager) Get(id string, userID uint, isAdmin bool) (*pos.Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if !isAdmin && session.Cashier.ID != userID {
		return nil, ErrSessionForbidden
	}
	return session, nil
}

// List returns the sessions visible to the user, oldest first.
func (m *SessionManager) List(userID uint, isAdmin bool) []*pos.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*pos.Session
	for _, s := range m.sessions {
		if isAdmin || s.Cashier.ID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Close discards a session. A session with a submission in flight is kept.
func (m *SessionManager) Close(id string, userID uint, isAdmin bool) error {
	session, err := m.Get(id, userID, isAdmin)
	if err != nil {
		return err
	}
	if session.View().CheckoutState == pos.StateSubmitting {
		return pos.ErrSubmissionInProgress
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	utils.InfoLogger.WithField("session", id).Info("POS session closed")
	return nil
}

// CloseForUser drops every session of a cashier, used on logout.
func (m *SessionManager) CloseForUser(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	closed := 0
	for id, s := range m.sessions {
		if s.Cashier.ID == userID && s.View().CheckoutState != pos.StateSubmitting {
			delete(m.sessions, id)
			closed++
		}
	}
	return closed
}
