package repository

import (
	"context"
	"errors"
	"log"
	"time"

	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"gorm.io/gorm"
)

type txKey struct{}

// dbFrom returns the transaction carried by ctx, or db when there is none.
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// TxOptions bounds how long a unit of work may take and how often it is retried.
type TxOptions struct {
	Timeout    time.Duration // per attempt
	MaxRetries int           // extra attempts after the first, transient errors only
	Backoff    time.Duration // multiplied by the attempt number
}

type transactor struct {
	db   *gorm.DB
	opts TxOptions
}

// NewTransactor creates a gorm-backed Transactor
func NewTransactor(db *gorm.DB, opts TxOptions) domainRepo.Transactor {
	return &transactor{db: db, opts: opts}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// nested calls join the outer unit of work
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = t.run(ctx, fn)
		if err == nil || !database.IsTransient(err) || attempt >= t.opts.MaxRetries {
			break
		}
		log.Printf("Transaction attempt %d failed with transient error, retrying: %v", attempt+1, err)

		select {
		case <-ctx.Done():
			return apperror.NewTransactionError("Transaction aborted: " + ctx.Err().Error())
		case <-time.After(t.opts.Backoff * time.Duration(attempt+1)):
		}
	}

	switch {
	case err == nil:
		return nil
	case database.IsTransient(err):
		log.Printf("Transaction gave up after %d attempts: %v", t.opts.MaxRetries+1, err)
		return apperror.NewTransactionError("Transaction aborted, please retry")
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.NewTransactionError("Transaction timed out")
	}
	return err
}

func (t *transactor) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
