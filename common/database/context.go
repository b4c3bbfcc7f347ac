// Package database holds the deadlines shared by the relational record store
// backends.
package database

import (
	"context"
	"time"
)

const (
	// PingTimeout bounds the connectivity check made when a backend opens.
	PingTimeout = 5 * time.Second

	// AppendTimeout bounds a single insert of one submission.
	AppendTimeout = 5 * time.Second

	// ListTimeout bounds a full read of the submissions table.
	ListTimeout = 10 * time.Second
)

// PingContext derives a context for the open-time connectivity check.
func PingContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, PingTimeout)
}

// AppendContext derives a context for inserting one record.
func AppendContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, AppendTimeout)
}

// ListContext derives a context for reading every record. A parent deadline
// that is already shorter wins.
func ListContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, ListTimeout)
}
