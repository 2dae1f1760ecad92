// Package distribution splits a lesson budget across sub-units.
package distribution

import (
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

type Allocation struct {
	Unit  domain.SubUnit `json:"unit"`
	Count int            `json:"count"`
}

// Distribute allocates total across units: every unit gets total/len(units),
// and the first total%len(units) units (in input order) get one more.
// Units left with zero are dropped, so the counts always sum to total.
func Distribute(total int, units []domain.SubUnit) ([]Allocation, error) {
	if len(units) == 0 {
		return nil, apperrors.InvalidInput("distribute: no sub-units")
	}
	if total < 1 {
		return nil, apperrors.InvalidInput("distribute: total %d < 1", total)
	}
	base := total / len(units)
	remainder := total % len(units)

	out := make([]Allocation, 0, len(units))
	for i, u := range units {
		count := base
		if i < remainder {
			count++
		}
		if count == 0 {
			continue
		}
		out = append(out, Allocation{Unit: u, Count: count})
	}
	return out, nil
}

// ClampTotal maps non-positive totals to 1 before calling Distribute.
func ClampTotal(total int) int {
	if total < 1 {
		return 1
	}
	return total
}

// Sum returns the total number of lessons across allocations.
func Sum(allocs []Allocation) int {
	n := 0
	for _, a := range allocs {
		n += a.Count
	}
	return n
}
