package bus

import (
	"context"

	"github.com/starpathlabs/constellation-backend/internal/realtime"
)

// Bus carries invalidation messages between API instances. The Redis
// implementation is the production one; the in-process bus backs single
// instance deployments and tests.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}
