package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hr-training-api/internal/queue"
	"github.com/iliyamo/hr-training-api/internal/repository"
)

// notifier publishes domain events after successful writes. A failed
// publish is logged and never fails the write that triggered it.
type notifier struct {
	pub queue.Publisher
	log *zap.Logger
}

func newNotifier(pub queue.Publisher, log *zap.Logger) notifier {
	if pub == nil {
		pub = queue.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return notifier{pub: pub, log: log}
}

func (n notifier) emit(ctx context.Context, typ string, id int64, payload any) {
	e := queue.Event{
		Type:       typ,
		TenantID:   repository.Scope(ctx),
		EntityID:   id,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	if err := n.pub.Publish(ctx, e); err != nil {
		n.log.Warn("event publish failed", zap.String("type", typ), zap.Int64("entity_id", id), zap.Error(err))
	}
}
