package authstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/domain/auth"
	"github.com/Nelson200402/Educacion/internal/events"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

var (
	ErrSignedOut = errors.New("authstore: not signed in")
	ErrNoProfile = errors.New("authstore: profile not completed")
)

// State is what a chat has persisted: the opaque token and the login identity blob.
type State struct {
	ChatID int64
	Token  string
	User   *auth.User
}

func (s State) SignedIn() bool { return s.Token != "" }

// ProfileID returns the nested study profile id, required before any scheduling.
func (s State) ProfileID() (int64, error) {
	if !s.SignedIn() {
		return 0, ErrSignedOut
	}
	if s.User == nil || s.User.Usuario == nil || s.User.Usuario.ID == 0 {
		return 0, ErrNoProfile
	}
	return s.User.Usuario.ID, nil
}

// Context attaches the token for api.Client calls.
func (s State) Context(ctx context.Context) context.Context {
	if s.Token == "" {
		return ctx
	}
	return api.WithToken(ctx, s.Token)
}

// Store reads and mutates chat auth state. Every mutation publishes events.AuthChanged.
type Store struct {
	kv  KV
	bus *events.Bus
}

func New(kv KV, bus *events.Bus) *Store {
	return &Store{kv: kv, bus: bus}
}

func (s *Store) Load(ctx context.Context, chatID int64) (State, error) {
	st := State{ChatID: chatID}

	tok, _, err := s.kv.Get(ctx, chatID, KeyToken)
	if err != nil {
		return st, fmt.Errorf("load token: %w", err)
	}
	st.Token = tok

	raw, ok, err := s.kv.Get(ctx, chatID, KeyUser)
	if err != nil {
		return st, fmt.Errorf("load user: %w", err)
	}
	if ok && raw != "" {
		var u auth.User
		// an unreadable blob counts as no user
		if json.Unmarshal([]byte(raw), &u) == nil {
			st.User = &u
		}
	}
	return st, nil
}

func (s *Store) SignIn(ctx context.Context, chatID int64, res auth.LoginResponse) error {
	if res.Token == "" {
		return errors.New("authstore: empty token")
	}
	if err := s.putUser(ctx, chatID, res.User); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, chatID, KeyToken, res.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.publish(chatID)
	return nil
}

// SetUser replaces the identity blob, e.g. after the profile was created or renamed.
func (s *Store) SetUser(ctx context.Context, chatID int64, u auth.User) error {
	if err := s.putUser(ctx, chatID, u); err != nil {
		return err
	}
	s.publish(chatID)
	return nil
}

func (s *Store) SignOut(ctx context.Context, chatID int64) error {
	if err := s.kv.Delete(ctx, chatID, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.publish(chatID)
	return nil
}

func (s *Store) putUser(ctx context.Context, chatID int64, u auth.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, chatID, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *Store) publish(chatID int64) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Kind: events.AuthChanged, ChatID: chatID})
	}
}
