// Package persistence saves and restores network state through a small
// key-value store contract.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/nn"
)

var ErrNotFound = errors.New("key not found")

// Store is a durable string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Encode serializes network state. encoding/json writes float64 values with
// the shortest representation that round-trips exactly.
func Encode(state nn.State) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to encode network state: %w", err)
	}
	return string(data), nil
}

func Decode(payload string) (nn.State, error) {
	var state nn.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nn.State{}, fmt.Errorf("failed to decode network state: %w", err)
	}
	if err := state.Validate(); err != nil {
		return nn.State{}, err
	}
	return state, nil
}

// Save writes the network's current state under key.
func Save(ctx context.Context, store Store, key string, net *nn.Network) error {
	payload, err := Encode(net.State())
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Load replaces the network's state with the one stored under key. It
// reports false, leaving the network untouched, when the key is absent or
// the payload cannot be read, parsed or applied.
func Load(ctx context.Context, store Store, key string, net *nn.Network) bool {
	payload, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.WithField("key", key).WithError(err).Warn("Failed to read model state")
		}
		return false
	}

	state, err := Decode(payload)
	if err != nil {
		logger.WithField("key", key).WithError(err).Warn("Discarding unreadable model state")
		return false
	}

	if err := net.Restore(state); err != nil {
		logger.WithField("key", key).WithError(err).Warn("Failed to restore model state")
		return false
	}

	return true
}
