package ui

import (
	"context"
	"sync/atomic"
)

var mounts atomic.Uint64

// lifetime scopes a component mount.
//
// Commands started by a mount carry its id back in their result message; once the
// mount is closed the context is cancelled and late results are dropped.
type lifetime struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime(parent context.Context) lifetime {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return lifetime{id: mounts.Add(1), ctx: ctx, cancel: cancel}
}

// owns reports whether a result addressed to mount belongs to this, still open, lifetime.
func (l lifetime) owns(mount uint64) bool {
	return l.id == mount && l.ctx.Err() == nil
}

func (l lifetime) close() {
	l.cancel()
}
