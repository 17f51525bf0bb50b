package repository

import "context"

// Transactor runs fn as a single unit of work. Repository calls made with the
// context handed to fn join that unit of work; returning an error rolls all
// of them back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
