package worker

import (
	"context"
	"log"
	"time"

	"github.com/corelend/lead-engine/internal/infra/http/middleware"
	"github.com/corelend/lead-engine/internal/usecase"
)

// NeglectSweeper is the per-tick engine primitive the worker drives.
type NeglectSweeper interface {
	Execute(ctx context.Context) (*usecase.TickReport, error)
}

// ReassignmentWorker runs the neglected-lead sweep on a fixed interval. Each
// tick is an independent, idempotent scan; nothing persists between ticks.
type ReassignmentWorker struct {
	sweeper      NeglectSweeper
	tickInterval time.Duration
}

func NewReassignmentWorker(sweeper NeglectSweeper, tickInterval time.Duration) *ReassignmentWorker {
	return &ReassignmentWorker{
		sweeper:      sweeper,
		tickInterval: tickInterval,
	}
}

func (w *ReassignmentWorker) Start(ctx context.Context) {
	log.Printf("🕒 reassignment worker started (tick %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runTick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ reassignment worker stopped")
			return
		case <-ticker.C:
			w.runTick(ctx)
		}
	}
}

func (w *ReassignmentWorker) runTick(ctx context.Context) {
	report, err := w.sweeper.Execute(ctx)
	if err != nil {
		// Tick-level failure (the scan itself); contained here, never fatal.
		log.Printf("❌ reassignment sweep failed: %v", err)
		return
	}

	for outcome, count := range report.Outcomes {
		middleware.RecordSweepOutcome(string(outcome), count)
	}

	if report.Scanned > 0 {
		log.Printf("✅ reassignment sweep: scanned=%d reassigned=%d no_available=%d already_least_loaded=%d changed=%d errors=%d (%s)",
			report.Scanned,
			report.Outcomes[usecase.OutcomeReassigned],
			report.Outcomes[usecase.OutcomeNoAvailableEmployees],
			report.Outcomes[usecase.OutcomeAlreadyLeastLoaded],
			report.Outcomes[usecase.OutcomeLeadChanged],
			report.Outcomes[usecase.OutcomeError],
			report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
}
