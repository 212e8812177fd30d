package veezi

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrency caps the parallel lookups made by relation helpers
const MaxConcurrency = 4

// SessionFilm retrieves the film a session screens
func (c *Client) SessionFilm(ctx context.Context, s *Session) (*Film, error) {
	return c.GetFilm(ctx, s.FilmID)
}

// SessionScreen retrieves the screen a session plays on
func (c *Client) SessionScreen(ctx context.Context, s *Session) (*Screen, error) {
	return c.GetScreen(ctx, s.ScreenID)
}

// SessionFilmPackage retrieves the package a session belongs to. It returns
// nil without error when the session is not part of a package.
func (c *Client) SessionFilmPackage(ctx context.Context, s *Session) (*FilmPackage, error) {
	if s.FilmPackageID == nil {
		return nil, nil
	}
	return c.GetFilmPackage(ctx, *s.FilmPackageID)
}

// SessionAttributes retrieves the session's attributes, in the order the
// session lists them.
func (c *Client) SessionAttributes(ctx context.Context, s *Session) ([]Attribute, error) {
	attrs := make([]Attribute, len(s.Attributes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrency)
	for i, id := range s.Attributes {
		g.Go(func() error {
			a, err := c.GetAttribute(ctx, id)
			if err != nil {
				return fmt.Errorf("attribute %s: %w", id, err)
			}
			attrs[i] = *a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return attrs, nil
}

// PackageFilms retrieves the films of a package in screening order
func (c *Client) PackageFilms(ctx context.Context, p *FilmPackage) (FilmList, error) {
	ordered := p.OrderedFilms()
	films := make(FilmList, len(ordered))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrency)
	for i, pf := range ordered {
		g.Go(func() error {
			f, err := c.GetFilm(ctx, pf.FilmID)
			if err != nil {
				return fmt.Errorf("package film %s: %w", pf.FilmID, err)
			}
			films[i] = *f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return films, nil
}
