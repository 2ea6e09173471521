package mock

import (
	"context"

	"github.com/fwojciec/kdoc"
)

var _ kdoc.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of kdoc.IndexStore.
type IndexStore struct {
	ResetFn          func(ctx context.Context) error
	InsertIfAbsentFn func(ctx context.Context, entry kdoc.Entry) (bool, error)
	CommitFn         func() error
	AbortFn          func() error
}

func (s *IndexStore) Reset(ctx context.Context) error {
	return s.ResetFn(ctx)
}

func (s *IndexStore) InsertIfAbsent(ctx context.Context, entry kdoc.Entry) (bool, error) {
	return s.InsertIfAbsentFn(ctx, entry)
}

func (s *IndexStore) Commit() error {
	return s.CommitFn()
}

func (s *IndexStore) Abort() error {
	return s.AbortFn()
}
