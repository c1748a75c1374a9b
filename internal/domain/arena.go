package domain

import "log/slog"

// Arena owns every task created during a run. Agents and queues hold
// TaskIDs and look them up here, so a task has exactly one authoritative
// copy no matter how many collections reference it.
type Arena struct {
	nextID TaskID
	tasks  map[TaskID]*Task
	order  []TaskID
}

// NewArena creates an empty task arena.
func NewArena() *Arena {
	return &Arena{
		nextID: 1,
		tasks:  make(map[TaskID]*Task),
	}
}

// Create registers a new pending task and returns it. Urgency is clamped
// into [0, 1] on the way in.
func (a *Arena) Create(cat IncidentCategory, location string, urgency float64, createStep int) *Task {
	t := &Task{
		ID:         a.nextID,
		Category:   cat,
		Location:   location,
		Urgency:    ClampUrgency(urgency),
		CreateStep: createStep,
		Status:     TaskPending,
	}
	a.nextID++
	a.tasks[t.ID] = t
	a.order = append(a.order, t.ID)
	return t
}

// Get returns the task for an ID, or nil if it was never created.
func (a *Arena) Get(id TaskID) *Task {
	return a.tasks[id]
}

// Len returns the number of tasks ever created.
func (a *Arena) Len() int {
	return len(a.order)
}

// All returns every task in creation order.
func (a *Arena) All() []*Task {
	out := make([]*Task, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.tasks[id])
	}
	return out
}

// advance moves a task's status forward. Backward transitions are refused;
// the lifecycle is strictly pending → assigned → in_progress → completed.
func (a *Arena) advance(id TaskID, to TaskStatus) *Task {
	t := a.tasks[id]
	if t == nil {
		slog.Warn("status change for unknown task", "task", id, "to", to)
		return nil
	}
	if statusRank(to) < statusRank(t.Status) {
		slog.Warn("refusing task status regression",
			"task", id, "from", t.Status, "to", to)
		return nil
	}
	t.Status = to
	return t
}

// MarkAssigned stamps the assignee and start step and moves the task to
// assigned.
func (a *Arena) MarkAssigned(id TaskID, assignee string, step int) {
	if t := a.advance(id, TaskAssigned); t != nil {
		t.AssignedTo = assignee
		s := step
		t.StartStep = &s
	}
}

// MarkInProgress records the execution start.
func (a *Arena) MarkInProgress(id TaskID, step int) {
	if t := a.advance(id, TaskInProgress); t != nil {
		s := step
		t.StartStep = &s
	}
}

// MarkCompleted finalizes the task record.
func (a *Arena) MarkCompleted(id TaskID, step int) {
	if t := a.advance(id, TaskCompleted); t != nil {
		s := step
		t.CompletionStep = &s
	}
}
