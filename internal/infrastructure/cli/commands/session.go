package commands

import (
	"context"

	"github.com/doeshing/mastopoll/internal/app"
)

// Session builds the container on first use, after cobra has parsed the
// persistent flags into Options.
type Session struct {
	Options app.Options

	container *app.Container
}

// Container returns the shared dependency container.
func (s *Session) Container(ctx context.Context) (*app.Container, error) {
	if s.container != nil {
		return s.container, nil
	}
	c, err := app.BuildContainer(ctx, s.Options)
	if err != nil {
		return nil, err
	}
	s.container = c
	return c, nil
}

// Close releases resources held by the container.
func (s *Session) Close() error {
	if s.container == nil {
		return nil
	}
	return s.container.Close()
}
