package worker

import (
	"sort"

	"beadworker/internal/tracker"
)

// SelectCandidates filters the ready set down to the urgent priority bands
// (effective priority <= maxPriority) and stable-sorts ascending, so ties
// keep the tracker's original relative order. Tasks with no priority field
// sort as lowest urgency and never make the cut while banded work exists.
func SelectCandidates(tasks []tracker.Task, maxPriority int) []tracker.Task {
	candidates := make([]tracker.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.EffectivePriority() <= maxPriority {
			candidates = append(candidates, task)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EffectivePriority() < candidates[j].EffectivePriority()
	})

	return candidates
}
