package usecase

import "github.com/corelend/lead-engine/internal/entity"

// Workload index: pure functions over a roster snapshot and a lead-count-per-
// worker snapshot. Counts are derived on demand, never cached (fairness is a
// soft heuristic, so an eventually consistent snapshot is fine).

// FilterEligible keeps the employees automatic distribution may target.
func FilterEligible(workers []*entity.Employee) []*entity.Employee {
	eligible := make([]*entity.Employee, 0, len(workers))
	for _, w := range workers {
		if w.EligibleForDistribution() {
			eligible = append(eligible, w)
		}
	}
	return eligible
}

// LeastLoaded returns the worker with the minimum active-lead count, ties
// broken by input order. Returns nil for an empty roster.
func LeastLoaded(workers []*entity.Employee, counts map[string]int) *entity.Employee {
	var best *entity.Employee
	bestCount := 0
	for _, w := range workers {
		c := counts[w.ID]
		if best == nil || c < bestCount {
			best = w
			bestCount = c
		}
	}
	return best
}

// NextInRotation returns the worker at cursor and the advanced cursor,
// wrapping modulo the roster length. Returns nil for an empty roster.
func NextInRotation(workers []*entity.Employee, cursor int) (*entity.Employee, int) {
	if len(workers) == 0 {
		return nil, cursor
	}
	idx := cursor % len(workers)
	if idx < 0 {
		idx += len(workers)
	}
	return workers[idx], idx + 1
}

func employeeIDs(workers []*entity.Employee) []string {
	ids := make([]string, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	return ids
}
