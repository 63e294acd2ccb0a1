package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corelend/lead-engine/internal/entity"
)

func TestLeastLoadedPicksMinimum(t *testing.T) {
	workers := []*entity.Employee{
		activeEmployee("e1", "d1"),
		activeEmployee("e2", "d1"),
		activeEmployee("e3", "d1"),
	}
	counts := map[string]int{"e1": 4, "e2": 1, "e3": 2}

	assert.Equal(t, "e2", LeastLoaded(workers, counts).ID)
}

func TestLeastLoadedTieBreaksByInputOrder(t *testing.T) {
	workers := []*entity.Employee{
		activeEmployee("e1", "d1"),
		activeEmployee("e2", "d1"),
	}
	counts := map[string]int{"e1": 2, "e2": 2}

	assert.Equal(t, "e1", LeastLoaded(workers, counts).ID)
}

func TestLeastLoadedMissingCountMeansZero(t *testing.T) {
	workers := []*entity.Employee{
		activeEmployee("e1", "d1"),
		activeEmployee("e2", "d1"),
	}
	counts := map[string]int{"e1": 1}

	assert.Equal(t, "e2", LeastLoaded(workers, counts).ID)
}

func TestLeastLoadedEmptyRoster(t *testing.T) {
	assert.Nil(t, LeastLoaded(nil, map[string]int{}))
}

func TestNextInRotationWrapsAround(t *testing.T) {
	workers := []*entity.Employee{
		activeEmployee("e1", "d1"),
		activeEmployee("e2", "d1"),
	}

	cursor := 0
	var picked []string
	for i := 0; i < 5; i++ {
		var w *entity.Employee
		w, cursor = NextInRotation(workers, cursor)
		picked = append(picked, w.ID)
	}

	assert.Equal(t, []string{"e1", "e2", "e1", "e2", "e1"}, picked)
}

func TestNextInRotationEmptyRoster(t *testing.T) {
	w, cursor := NextInRotation(nil, 3)
	assert.Nil(t, w)
	assert.Equal(t, 3, cursor)
}

func TestFilterEligibleExcludesAdministrators(t *testing.T) {
	admin := activeEmployee("admin", "d1")
	admin.RoleName = "Branch Administrator"
	idle := activeEmployee("idle", "d1")
	inactive := activeEmployee("off", "d1")
	inactive.IsActive = false

	eligible := FilterEligible([]*entity.Employee{admin, idle, inactive})

	assert.Len(t, eligible, 1)
	assert.Equal(t, "idle", eligible[0].ID)
}
