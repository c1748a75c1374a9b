package agents

import (
	"log/slog"

	"github.com/talgya/flood-response/internal/domain"
	"github.com/talgya/flood-response/internal/entropy"
)

// defaultAssemblySpeed is shared by all teams; faster assembly shortens the
// mobilization delay.
const defaultAssemblySpeed = 0.8

// ResponseTeam executes rescue missions. State machine: available → busy →
// available. Assignment messages that arrive while busy are dropped, not
// queued; the sender gets no feedback beyond the log line.
type ResponseTeam struct {
	Base

	arena         *domain.Arena
	teamType      string
	capability    float64
	assemblySpeed float64
	available     bool
	rng           *entropy.Source

	active    domain.TaskID
	hasActive bool
}

// NewResponseTeam creates a team with the given capability rating.
func NewResponseTeam(name, teamType string, capability float64, arena *domain.Arena, rng *entropy.Source) *ResponseTeam {
	return &ResponseTeam{
		Base:          NewBase(name, domain.RoleResponseTeam),
		arena:         arena,
		teamType:      teamType,
		capability:    capability,
		assemblySpeed: defaultAssemblySpeed,
		available:     true,
		rng:           rng,
	}
}

// TeamType returns the organizational tier label ("municipal", "district"…).
func (r *ResponseTeam) TeamType() string { return r.teamType }

// Capability overrides the dispatch default with the team's rating.
func (r *ResponseTeam) Capability() float64 { return r.capability }

// Available is true exactly when the team has no active task.
func (r *ResponseTeam) Available() bool { return r.available }

// ExecuteMission commits the team to a task. Total delay = assembly +
// execution (+ sanitary check in baseline mode, 50% chance, 1–2 steps).
// Higher urgency and higher capability both shorten execution.
func (r *ResponseTeam) ExecuteMission(id domain.TaskID, step int, mode domain.ScenarioMode) {
	t := r.arena.Get(id)
	if t == nil {
		return
	}

	r.available = false

	sanitaryDelay := 0
	if mode == domain.ModeBaseline && r.rng.Float() < 0.5 {
		sanitaryDelay = r.rng.IntBetween(1, 2)
	}

	assembly := int(6 * (1 - r.assemblySpeed))
	execution := int(10 * (1 - t.Urgency) * (1.5 - r.capability))
	total := assembly + execution + sanitaryDelay

	r.busyUntil = step + total
	r.active = id
	r.hasActive = true
	r.arena.MarkInProgress(id, step)

	if sanitaryDelay > 0 {
		slog.Info("sanitary check delays mission",
			"step", step, "team", r.Name(), "delay", sanitaryDelay)
	}
	slog.Info("mission started",
		"step", step, "team", r.Name(), "category", t.Category,
		"location", t.Location, "eta_steps", total)
}

// ProcessInbox completes the active mission once the busy deadline has
// passed, then considers new assignments. A busy team drops incoming
// assignments.
func (r *ResponseTeam) ProcessInbox(step int) {
	if r.hasActive && step >= r.busyUntil {
		t := r.arena.Get(r.active)
		r.arena.MarkCompleted(r.active, step)
		responseTime := step - t.CreateStep

		r.markCompleted()
		r.recordResponseTime(responseTime)
		r.available = true
		r.hasActive = false

		slog.Info("mission completed",
			"step", step, "team", r.Name(), "task", t.ID, "response_time", responseTime)
	}

	for _, msg := range r.inbox {
		switch msg.Type {
		case domain.MsgDirectCommand, domain.MsgTaskAssignment, domain.MsgHierarchicalAssignment:
			if !r.available {
				slog.Debug("assignment dropped, team busy",
					"step", step, "team", r.Name(), "task", msg.TaskID)
				continue
			}
			mode := msg.ScenarioMode
			if mode == "" {
				mode = domain.ModeBaseline
			}
			r.ExecuteMission(msg.TaskID, step, mode)
		}
	}
	r.inbox = nil
}
