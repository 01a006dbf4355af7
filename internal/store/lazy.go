package store

import (
	"context"
	"sync"

	"sponsor-insights/internal/models"
)

// LazyBackend builds its underlying backend on first use and reuses it. A failed
// build is remembered and returned from every later call.
type LazyBackend struct {
	name  string
	build func() (Backend, error)

	once    sync.Once
	backend Backend
	err     error
}

func NewLazyBackend(name string, build func() (Backend, error)) *LazyBackend {
	return &LazyBackend{name: name, build: build}
}

func (l *LazyBackend) Name() string { return l.name }

func (l *LazyBackend) Select(ctx context.Context, dataset models.Dataset, filter models.Filter, limit int) ([]models.NormalizedRecord, error) {
	b, err := l.get()
	if err != nil {
		return nil, err
	}
	return b.Select(ctx, dataset, filter, limit)
}

func (l *LazyBackend) get() (Backend, error) {
	l.once.Do(func() {
		l.backend, l.err = l.build()
	})
	return l.backend, l.err
}
