package common

import (
	"context"
	"database/sql"
	"time"
)

// IsTemporary 判断是否为临时性错误
func IsTemporary(err error) bool {
	if temp, ok := err.(interface{ Temporary() bool }); ok {
		return temp.Temporary()
	}
	return false
}

// IsRetryable 判断是否可重试
func IsRetryable(err error) bool {
	return IsTemporary(err) || err == sql.ErrConnDone
}

type temporaryError struct {
	error
}

func (e temporaryError) Temporary() bool { return true }

func (e temporaryError) Unwrap() error { return e.error }

// Temporary 将错误标记为可重试
func Temporary(err error) error {
	if err == nil {
		return nil
	}
	return temporaryError{err}
}

// WithRetry 通用重试机制，第 i 次失败后等待 backoff*(i+1)，ctx 结束时立即返回
func WithRetry(ctx context.Context, operation func() error, maxRetries int, backoff time.Duration) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) || i == maxRetries-1 {
			break
		}

		timer := time.NewTimer(backoff * time.Duration(i+1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
