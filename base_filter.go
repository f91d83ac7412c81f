package bitvec

import "context"

// BaseFilter is implemented by the probabilistic membership filters built
// on top of IBitSet.
type BaseFilter[T any] interface {
	Insert(ctx context.Context, element T) error
	Lookup(ctx context.Context, element T) (bool, error)
}
