package content

import (
	"context"
	"fmt"
	"sort"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Library holds every configured page in memory. Pages are read-only
// after construction.
type Library struct {
	pages  map[string]*Page
	logger zerolog.Logger
}

// NewLibrary loads all slugs concurrently. Any failed page fails the whole
// library.
func NewLibrary(ctx context.Context, slugs []string, loader Loader, logger zerolog.Logger) (*Library, error) {
	logger = logger.With().Str("component", "page-library").Logger()

	loaded := make([]*Page, len(slugs))
	g, gctx := errgroup.WithContext(ctx)
	for i, slug := range slugs {
		g.Go(func() error {
			page, err := loader.Load(gctx, slug)
			if err != nil {
				return fmt.Errorf("failed to load page %s: %w", slug, err)
			}
			loaded[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("failed to load pages")
		return nil, err
	}

	l := &Library{pages: make(map[string]*Page, len(slugs)), logger: logger}
	for i, slug := range slugs {
		l.pages[slug] = loaded[i]
	}

	logger.Info().Int("pages", len(l.pages)).Msg("page library initialised")
	return l, nil
}

// Get returns the page for slug.
func (l *Library) Get(slug string) (*Page, error) {
	page, ok := l.pages[slug]
	if !ok {
		return nil, model.ErrPageNotFound
	}
	return page, nil
}

// Slugs lists the available pages in name order.
func (l *Library) Slugs() []string {
	slugs := make([]string, 0, len(l.pages))
	for s := range l.pages {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs
}
