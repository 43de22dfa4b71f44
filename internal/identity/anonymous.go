package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AnonymousProvider signs in as a device-local user. The id is created on
// first sign-in and persisted at Path so later runs see the same
// collection. An empty Path yields a fresh id per provider.
type AnonymousProvider struct {
	Path string

	ephemeral string
}

func (p *AnonymousProvider) SignIn(ctx context.Context) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if p.Path == "" {
		if p.ephemeral == "" {
			p.ephemeral = uuid.New().String()
		}
		return User{ID: p.ephemeral, Anonymous: true}, nil
	}

	data, err := os.ReadFile(p.Path)
	switch {
	case err == nil:
		id := strings.TrimSpace(string(data))
		if _, perr := uuid.Parse(id); perr != nil {
			return User{}, fmt.Errorf("reading identity %s: %w", p.Path, perr)
		}
		return User{ID: id, Anonymous: true}, nil
	case !errors.Is(err, os.ErrNotExist):
		return User{}, fmt.Errorf("reading identity: %w", err)
	}

	id := uuid.New().String()
	if err := os.MkdirAll(filepath.Dir(p.Path), 0755); err != nil {
		return User{}, fmt.Errorf("creating identity directory: %w", err)
	}
	if err := os.WriteFile(p.Path, []byte(id+"\n"), 0600); err != nil {
		return User{}, fmt.Errorf("writing identity: %w", err)
	}
	return User{ID: id, Anonymous: true}, nil
}
