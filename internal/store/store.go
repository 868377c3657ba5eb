package store

import (
	"context"
	"fmt"
	"strings"
)

// Store reads and writes secret payloads by id.
type Store interface {
	// Fetch returns the payload stored under id.
	Fetch(ctx context.Context, id string) (string, error)

	// Put replaces the payload stored under id.
	Put(ctx context.Context, id, payload string) error

	// List returns the ids of all secrets visible to the caller.
	List(ctx context.Context) ([]string, error)
}

// Identity describes who the store authenticates the caller as.
type Identity struct {
	Account string
	UserID  string
	ARN     string
}

// Identifier is implemented by stores that can report the caller identity.
type Identifier interface {
	Identity(ctx context.Context) (*Identity, error)
}

// Backend names accepted by New.
const (
	BackendAWS = "aws"
	BackendDir = "dir"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Dir     string
	Profile string
	Region  string
}

// New builds the store described by cfg. An empty backend means AWS.
func New(cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendAWS:
		return NewAWS(AWSConfig{Profile: cfg.Profile, Region: cfg.Region}), nil
	case BackendDir:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("store backend %q requires a directory", BackendDir)
		}
		return NewDir(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
