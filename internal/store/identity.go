package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foxhub/foxhub/internal/storage"
)

// ErrNoIdentity is returned by Current when nobody is logged in.
var ErrNoIdentity = errors.New("store: no identity")

// Identity persists the single local user profile. Login fabricates a profile
// from the email; there are no credentials to check.
type Identity struct {
	kv  storage.KV
	log *slog.Logger
}

// Current returns the persisted profile, or ErrNoIdentity. Unlike the record
// slots, an unreadable user slot is cleared rather than reseeded: there is no
// meaningful seed identity.
func (i *Identity) Current(ctx context.Context) (*User, error) {
	payload, err := i.kv.Get(ctx, SlotUser)
	if errors.Is(err, storage.ErrSlotNotFound) {
		return nil, ErrNoIdentity
	}
	if err != nil {
		return nil, err
	}

	var u User
	if err := json.Unmarshal(payload, &u); err != nil {
		i.log.Warn("user slot unreadable, clearing", "error", err)
		if err := i.kv.Delete(ctx, SlotUser); err != nil {
			return nil, err
		}
		return nil, ErrNoIdentity
	}
	return &u, nil
}

// Login stores a fresh profile and returns it. An empty name defaults to the
// local part of the email.
func (i *Identity) Login(ctx context.Context, email, name string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Reason: "a valid email is required"}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	u := User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Avatar:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", email),
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	if err := i.kv.Set(ctx, SlotUser, payload); err != nil {
		return nil, err
	}
	i.log.Info("logged in", "email", email)
	return &u, nil
}

// Logout clears the identity slot. Data slots are untouched.
func (i *Identity) Logout(ctx context.Context) error {
	return i.kv.Delete(ctx, SlotUser)
}
