// Package dispatch holds the interchangeable task-assignment policies used
// by the coordination platform.
package dispatch

import "github.com/talgya/flood-response/internal/domain"

// Candidate is the dispatch-facing view of an agent. Capability and
// Available only carry meaning for response teams; other roles report 0
// and false, which keeps them out of the availability bonus in priority
// scoring without any type inspection.
type Candidate interface {
	Name() string
	Role() domain.Role
	Capability() float64
	Available() bool
}

// Assignment pairs a queued task with the index of the chosen candidate.
type Assignment struct {
	TaskID    domain.TaskID
	Candidate int
}

// Policy selects up to limit assignments from the head of the queue and
// returns the queue that remains for the next step.
type Policy interface {
	Name() string
	Select(arena *domain.Arena, queue []domain.TaskID, candidates []Candidate, limit int) (assigned []Assignment, remaining []domain.TaskID)
}

// Basic assigns each of the leading tasks to the first candidate in
// iteration order whose role matches, then drops that many tasks from the
// head of the queue. When a leading task finds no match the trim can
// misalign; this 1:1 simplification is the documented behavior of the
// basic policy.
type Basic struct{}

func (Basic) Name() string { return "basic" }

func (Basic) Select(arena *domain.Arena, queue []domain.TaskID, candidates []Candidate, limit int) ([]Assignment, []domain.TaskID) {
	window := queue
	if len(window) > limit {
		window = window[:limit]
	}

	var assigned []Assignment
	for _, id := range window {
		t := arena.Get(id)
		if t == nil {
			continue
		}
		for i, c := range candidates {
			if domain.Suitable(c.Role(), t.Category) {
				assigned = append(assigned, Assignment{TaskID: id, Candidate: i})
				break
			}
		}
	}

	return assigned, queue[len(assigned):]
}

// Priority scores every suitable candidate per task and picks the highest.
// Only tasks that found a candidate leave the queue; the rest wait for the
// next step.
type Priority struct{}

func (Priority) Name() string { return "priority" }

func (Priority) Select(arena *domain.Arena, queue []domain.TaskID, candidates []Candidate, limit int) ([]Assignment, []domain.TaskID) {
	window := queue
	if len(window) > limit {
		window = window[:limit]
	}

	var assigned []Assignment
	taken := make(map[domain.TaskID]bool)

	for _, id := range window {
		t := arena.Get(id)
		if t == nil {
			continue
		}

		best, bestScore := -1, 0.0
		for i, c := range candidates {
			if !domain.Suitable(c.Role(), t.Category) {
				continue
			}
			score := Score(c, t)
			if best == -1 || score > bestScore {
				best, bestScore = i, score
			}
		}

		if best >= 0 {
			assigned = append(assigned, Assignment{TaskID: id, Candidate: best})
			taken[id] = true
		}
	}

	remaining := make([]domain.TaskID, 0, len(queue)-len(assigned))
	for _, id := range queue {
		if !taken[id] {
			remaining = append(remaining, id)
		}
	}
	return assigned, remaining
}

// Score ranks a candidate for a task: 0.4×capability + 0.3×urgency + 0.3
// when the candidate is currently available.
func Score(c Candidate, t *domain.Task) float64 {
	score := 0.4*c.Capability() + 0.3*t.Urgency
	if c.Available() {
		score += 0.3
	}
	return score
}

// ForMode returns the policy a scenario's platform should use.
func ForMode(intelligentMatching bool) Policy {
	if intelligentMatching {
		return Priority{}
	}
	return Basic{}
}
