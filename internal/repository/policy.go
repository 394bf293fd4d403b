package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"techsat/config"

	"go.uber.org/zap"
)

// CallPolicy bounds every backend call with a deadline and retries transient
// failures a fixed number of times.
type CallPolicy struct {
	Timeout time.Duration
	Retries int
	Backoff time.Duration
	Logger  *zap.Logger
}

func NewCallPolicy(cfg *config.BackendConfig, log *zap.Logger) CallPolicy {
	return CallPolicy{Timeout: cfg.CallTimeout, Retries: cfg.Retries, Backoff: cfg.RetryBackoff, Logger: log}
}

// DefaultCallPolicy is used when a repository is built without configuration.
var DefaultCallPolicy = CallPolicy{Timeout: 5 * time.Second, Retries: 1, Backoff: 200 * time.Millisecond}

// do runs fn until it succeeds, fails permanently or runs out of attempts.
// ErrNotFound passes through unwrapped; everything else becomes a BackendError.
func (p CallPolicy) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			p.logger().Warn("retrying backend call", zap.String("op", op), zap.Error(err))
			select {
			case <-ctx.Done():
				return &BackendError{Op: op, Err: ctx.Err()}
			case <-time.After(p.Backoff):
			}
		}
		var timedOut bool
		timedOut, err = p.attempt(ctx, fn)
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
		if timedOut {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		if ctx.Err() != nil || !(timedOut || transient(err)) {
			break
		}
	}
	p.logger().Error("backend call failed", zap.String("op", op), zap.Error(err))
	return &BackendError{Op: op, Err: err}
}

func (p CallPolicy) attempt(ctx context.Context, fn func(ctx context.Context) error) (bool, error) {
	if p.Timeout <= 0 {
		return false, fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	err := fn(callCtx)
	timedOut := err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded)
	return timedOut, err
}

func (p CallPolicy) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.L()
	}
	return p.Logger
}

func transient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
