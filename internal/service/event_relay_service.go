package service

import (
	"context"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/events"
	pktNats "cubie-assistant/pkg/nats"
)

// EventDelivery pushes domain events to connected chat clients.
type EventDelivery interface {
	Broadcast(eventType string, payload map[string]interface{})
}

// EventRelayService forwards assistant events from the bus to websocket
// clients and reloads the help snapshot when another process rebuilt it.
type EventRelayService struct {
	subscriber *pktNats.Subscriber
	delivery   EventDelivery
	indexer    IIndexerService
	logger     logger.ILogger
}

func NewEventRelayService(sub *pktNats.Subscriber, delivery EventDelivery, indexer IIndexerService, log logger.ILogger) *EventRelayService {
	return &EventRelayService{
		subscriber: sub,
		delivery:   delivery,
		indexer:    indexer,
		logger:     log,
	}
}

func (s *EventRelayService) Start(ctx context.Context) error {
	for _, eventType := range []string{events.TypeDisputeStatusChanged, events.TypeDisputeCommentAdded, events.TypeEmailSent} {
		// Durable and shared: one instance takes each event and the hub fans
		// it out to the others.
		if err := s.subscriber.Subscribe(ctx, eventType, "assistant-ws-relay-"+eventType, s.relay); err != nil {
			return err
		}
	}
	// Ephemeral: every instance must reload its own snapshot.
	if err := s.subscriber.Subscribe(ctx, events.TypeHelpIndexRebuilt, "", s.reloadIndex); err != nil {
		return err
	}
	s.logger.Info("EVENTS", "Event relay started", nil)
	return nil
}

func (s *EventRelayService) relay(_ context.Context, event events.Event) error {
	s.delivery.Broadcast(event.EventType(), event.Payload())
	return nil
}

func (s *EventRelayService) reloadIndex(ctx context.Context, event events.Event) error {
	n, err := s.indexer.Reload(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("EVENTS", "Help snapshot reloaded after rebuild", map[string]interface{}{"chunks": n})
	return nil
}
