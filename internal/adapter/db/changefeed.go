package db

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const subscriptionBuffer = 64

// ChangeBroker fans committed writes out to the subscribers of the row's
// owner. Delivery never blocks a writer: events for a full subscriber are
// dropped and the subscriber is told to resync.
type ChangeBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	logger *zap.Logger
}

var _ ports.ChangeFeed = (*ChangeBroker)(nil)

func NewChangeBroker(logger *zap.Logger) *ChangeBroker {
	if logger == nil {
		logger = zap.L()
	}
	return &ChangeBroker{
		subs:   make(map[string]map[*subscription]struct{}),
		logger: logger,
	}
}

func (b *ChangeBroker) Subscribe(ctx context.Context, userID string) (ports.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &subscription{
		broker: b,
		userID: userID,
		events: make(chan domain.ChangeEvent, subscriptionBuffer),
		resync: make(chan struct{}, 1),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[*subscription]struct{})
	}
	b.subs[userID][sub] = struct{}{}
	return sub, nil
}

func (b *ChangeBroker) Publish(ev domain.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[ev.UserID] {
		select {
		case sub.events <- ev:
		default:
			b.logger.Warn("dropping change event for slow subscriber",
				zap.String("user_id", ev.UserID),
				zap.String("table", string(ev.Table)),
				zap.String("record_id", ev.RecordID),
			)
			select {
			case sub.resync <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers returns the number of open subscriptions for userID.
func (b *ChangeBroker) Subscribers(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}

func (b *ChangeBroker) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs[sub.userID], sub)
	if len(b.subs[sub.userID]) == 0 {
		delete(b.subs, sub.userID)
	}
	close(sub.events)
}

type subscription struct {
	broker *ChangeBroker
	userID string
	events chan domain.ChangeEvent
	resync chan struct{}
	once   sync.Once
}

func (s *subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

func (s *subscription) Resync() <-chan struct{} {
	return s.resync
}

func (s *subscription) Close() error {
	s.once.Do(func() { s.broker.remove(s) })
	return nil
}
