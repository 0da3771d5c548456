package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// Waves groups jobs into execution rounds: every job in wave N depends only
// on jobs in earlier waves. Jobs inside one wave are independent and may run
// in parallel.
//
// Kahn's algorithm over the needs graph; ties are broken by file order so a
// workflow always produces the same schedule.
func (w *Workflow) Waves() ([][]string, error) {
	indegree := make(map[string]int, len(w.Jobs))
	dependents := make(map[string][]string, len(w.Jobs))

	for _, id := range w.JobOrder {
		indegree[id] = len(w.Jobs[id].Needs)
		for _, dep := range w.Jobs[id].Needs {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	fileRank := make(map[string]int, len(w.JobOrder))
	for i, id := range w.JobOrder {
		fileRank[id] = i
	}

	ready := make([]string, 0, len(w.Jobs))
	for _, id := range w.JobOrder {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	var waves [][]string
	scheduled := 0
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return fileRank[ready[i]] < fileRank[ready[j]] })
		wave := ready
		waves = append(waves, wave)
		scheduled += len(wave)

		ready = nil
		for _, id := range wave {
			for _, next := range dependents[id] {
				indegree[next]--
				if indegree[next] == 0 {
					ready = append(ready, next)
				}
			}
		}
	}

	if scheduled != len(w.Jobs) {
		var stuck []string
		for _, id := range w.JobOrder {
			if indegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, fmt.Errorf("dependency cycle involving jobs: %s", strings.Join(stuck, ", "))
	}
	return waves, nil
}
