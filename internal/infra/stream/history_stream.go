package stream

import (
	"context"
	"log"
	"time"

	"github.com/corelend/lead-engine/internal/entity"
	"github.com/corelend/lead-engine/internal/usecase"
)

// StreamedHistory decorates a history store with a Kafka fan-out. Postgres is
// the source of truth: the append must succeed first, the stream publish is
// best-effort after it.
type StreamedHistory struct {
	Store    usecase.HistoryRepositoryInterface
	Producer *EventProducer
}

func NewStreamedHistory(store usecase.HistoryRepositoryInterface, producer *EventProducer) *StreamedHistory {
	return &StreamedHistory{Store: store, Producer: producer}
}

func (s *StreamedHistory) Append(ctx context.Context, event *entity.AssignmentEvent) error {
	if err := s.Store.Append(ctx, event); err != nil {
		return err
	}

	if err := s.Producer.Publish(ctx, event); err != nil {
		log.Printf("⚠️ history stream publish failed for lead %s: %v", event.LeadID, err)
	}

	return nil
}

func (s *StreamedHistory) LeadIDsByAction(ctx context.Context, action entity.AssignmentAction, since time.Time) ([]string, error) {
	return s.Store.LeadIDsByAction(ctx, action, since)
}
