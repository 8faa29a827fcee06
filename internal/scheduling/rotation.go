package scheduling

import (
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"github.com/papan-digital/minbar/internal/model"
)

// buildQueue orders the eligible candidates into the tick's playback queue.
//
// With RespectPriority set the queue is a strict descending sort under the
// deterministic total order. Otherwise a priority-weighted random permutation
// is drawn (weight = effective priority, sampling without replacement) so
// low-priority content still surfaces. The permutation is seeded from the
// display and instant: one tick is reproducible, successive ticks differ.
func buildQueue(cands []candidate, tc tickContext) []model.ScheduleEntry {
	if len(cands) == 0 {
		return []model.ScheduleEntry{}
	}

	ordered := make([]candidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(i, j int) bool { return less(ordered[i], ordered[j]) })

	if !tc.display.RespectPriority {
		ordered = weightedPermutation(ordered, tickSeed(tc.display.ID, tc.instant))
	}

	max := tc.display.MaxContentItems
	if max < 1 {
		max = 1
	}
	if len(ordered) > max {
		ordered = ordered[:max]
	}

	entries := make([]model.ScheduleEntry, 0, len(ordered))
	at := tc.instant
	for _, c := range ordered {
		entries = append(entries, model.ScheduleEntry{
			AssignmentID:       c.assignment.ID,
			ContentID:          c.content.ID,
			ContentType:        c.content.Type,
			URL:                c.content.URL,
			PlannedDisplayTime: at,
			Duration:           slotDuration(c, tc.display),
			EffectivePriority:  c.score,
			Layout:             c.assignment.Layout,
		})
		at = at.Add(time.Duration(slotDuration(c, tc.display)) * time.Second)
	}
	return entries
}

// slotDuration is how long the slot holds the screen: the content's own
// duration when the display paces by content, else the carousel interval.
func slotDuration(c candidate, d model.Display) int {
	if d.DurationDriven && c.content.Duration > 0 {
		return c.content.Duration
	}
	return d.CarouselInterval
}

// weightedPermutation draws candidates one at a time with probability
// proportional to their effective priority among the remaining pool.
func weightedPermutation(pool []candidate, seed int64) []candidate {
	rng := rand.New(rand.NewSource(seed))
	out := make([]candidate, 0, len(pool))
	remaining := make([]candidate, len(pool))
	copy(remaining, pool)

	for len(remaining) > 0 {
		total := 0.0
		for _, c := range remaining {
			total += c.score
		}
		pick := len(remaining) - 1
		r := rng.Float64() * total
		for i, c := range remaining {
			r -= c.score
			if r < 0 {
				pick = i
				break
			}
		}
		out = append(out, remaining[pick])
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return out
}

func tickSeed(displayID string, instant time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(displayID))
	return int64(h.Sum64()) ^ instant.Unix()
}
