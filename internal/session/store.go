// Package session holds the authenticated principal records as an
// immutable state value updated only through Dispatch.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"bookingdesk/internal/auth"
	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
)

type Store struct {
	log *zap.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		log:  logger,
		subs: make(map[int]func(State)),
	}
}

func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	next := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.log.Debug("session action", zap.String("action", fmt.Sprintf("%T", a)))
	for _, fn := range subs {
		fn(next)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every future state and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Current returns the signed-in principal. Admin wins over technician,
// technician over user, when several slices are populated.
func (s *Store) Current() (model.Principal, bool) {
	st := s.State()
	switch {
	case st.Admin.Current != nil:
		return *st.Admin.Current, true
	case st.Technician.Current != nil:
		return st.Technician.Current.Principal, true
	case st.User.Current != nil:
		return *st.User.Current, true
	default:
		return model.Principal{}, false
	}
}

// Token is the bearer token of the current principal, or "".
func (s *Store) Token() string {
	p, ok := s.Current()
	if !ok {
		return ""
	}
	return p.Token
}

// LoginWithToken derives the principal from token's claims and dispatches
// the login action for its role.
func (s *Store) LoginWithToken(token string) (model.Principal, error) {
	claims, err := auth.ParseUnverified(token)
	if err != nil {
		return model.Principal{}, fmt.Errorf("login: %w", err)
	}
	p := claims.Principal(token)
	act, err := LoginAction(p)
	if err != nil {
		return model.Principal{}, err
	}
	s.Dispatch(act)
	s.log.Info("signed in", zap.String("principal_id", p.ID), zap.String("role", p.Role))
	return p, nil
}

func (s *Store) Logout() {
	s.Dispatch(LoggedOut{})
}

// RequirePrincipal is Current with domain.ErrNotAuthenticated for the
// empty case.
func (s *Store) RequirePrincipal() (model.Principal, error) {
	p, ok := s.Current()
	if !ok {
		return model.Principal{}, domain.ErrNotAuthenticated
	}
	return p, nil
}
