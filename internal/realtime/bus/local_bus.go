package bus

import (
	"context"
	"sync"

	"github.com/starpathlabs/constellation-backend/internal/realtime"
)

// localBus delivers in-process only. Used when REDIS_ADDR is unset.
type localBus struct {
	mu    sync.RWMutex
	onMsg func(m realtime.Message)
}

func NewLocalBus() Bus {
	return &localBus{}
}

func (b *localBus) Publish(_ context.Context, msg realtime.Message) error {
	b.mu.RLock()
	fn := b.onMsg
	b.mu.RUnlock()
	if fn != nil {
		fn(msg)
	}
	return nil
}

func (b *localBus) StartForwarder(_ context.Context, onMsg func(m realtime.Message)) error {
	b.mu.Lock()
	b.onMsg = onMsg
	b.mu.Unlock()
	return nil
}

func (b *localBus) Close() error { return nil }
