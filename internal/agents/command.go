package agents

import (
	"log/slog"

	"github.com/talgya/flood-response/internal/domain"
)

// commandInboxCapacity bounds how many reports the authority can digest per
// step. Excess messages stay queued for the next step; the cap models
// limited information-processing throughput, not a buffer size.
const commandInboxCapacity = 5

// CommandAuthority is the city flood command. It publishes response levels
// from rainfall intensity, accumulates escalated emergency tasks, and can
// dispatch teams directly when direct-command mode is enabled.
type CommandAuthority struct {
	Base

	arena         *domain.Arena
	mode          domain.ScenarioMode
	directCommand bool
	responseLevel domain.ResponseLevel

	emergency []domain.TaskID
}

// NewCommandAuthority creates the command agent.
func NewCommandAuthority(name string, arena *domain.Arena, mode domain.ScenarioMode, directCommand bool) *CommandAuthority {
	return &CommandAuthority{
		Base:          NewBase(name, domain.RoleCommand),
		arena:         arena,
		mode:          mode,
		directCommand: directCommand,
	}
}

// IssueResponseLevel publishes the escalation tier for the current rainfall
// intensity.
func (c *CommandAuthority) IssueResponseLevel(intensity float64, step int) domain.ResponseLevel {
	level := domain.ResponseLevelFor(intensity)
	c.responseLevel = level
	slog.Info("response level issued", "step", step, "level", level, "rainfall", intensity)
	return level
}

// ResponseLevel returns the most recently published tier.
func (c *CommandAuthority) ResponseLevel() domain.ResponseLevel { return c.responseLevel }

// DirectCommandEnabled reports whether the authority may bypass the normal
// dispatch chain.
func (c *CommandAuthority) DirectCommandEnabled() bool { return c.directCommand }

// DirectDispatch immediately assigns a task to a specific team. Only active
// in direct-command mode; returns whether the dispatch happened.
func (c *CommandAuthority) DirectDispatch(team *ResponseTeam, id domain.TaskID, step int) bool {
	if !c.directCommand {
		return false
	}
	t := c.arena.Get(id)
	if t == nil {
		return false
	}

	slog.Info("direct dispatch",
		"step", step, "team", team.Name(), "category", t.Category, "location", t.Location)

	c.Send(team, domain.Message{
		Type:         domain.MsgDirectCommand,
		TaskID:       id,
		Priority:     "high",
		ScenarioMode: c.mode,
	}, step)
	c.arena.MarkAssigned(id, team.Name(), step)
	return true
}

// EnqueueEmergency adds an escalated task to the emergency list. Used by
// the hierarchical reporting path, where tasks arrive with a deferred
// create step.
func (c *CommandAuthority) EnqueueEmergency(id domain.TaskID) {
	c.emergency = append(c.emergency, id)
}

// DueEmergencies returns pending emergency tasks whose escalation delay has
// elapsed, in arrival order.
func (c *CommandAuthority) DueEmergencies(step int) []domain.TaskID {
	var due []domain.TaskID
	for _, id := range c.emergency {
		t := c.arena.Get(id)
		if t != nil && t.Status == domain.TaskPending && step >= t.CreateStep {
			due = append(due, id)
		}
	}
	return due
}

// RemoveEmergency drops a dispatched task from the emergency list.
func (c *CommandAuthority) RemoveEmergency(id domain.TaskID) {
	for i, v := range c.emergency {
		if v == id {
			c.emergency = append(c.emergency[:i], c.emergency[i+1:]...)
			return
		}
	}
}

// PendingBacklog counts emergency tasks still awaiting assignment.
func (c *CommandAuthority) PendingBacklog() int {
	n := 0
	for _, id := range c.emergency {
		if t := c.arena.Get(id); t != nil && t.Status == domain.TaskPending {
			n++
		}
	}
	return n
}

// ProcessInbox drains up to the per-step capacity. Any report message
// becomes an emergency task; everything consumed this step leaves the
// inbox, the rest waits.
func (c *CommandAuthority) ProcessInbox(step int) {
	limit := commandInboxCapacity
	if limit > len(c.inbox) {
		limit = len(c.inbox)
	}

	for _, msg := range c.inbox[:limit] {
		switch msg.Type {
		case domain.MsgEmergencyReport, domain.MsgHierarchicalReport, domain.MsgIncidentReport:
			cat := domain.ParseIncident(msg.Category)
			t := c.arena.Create(cat, msg.LocationOr("unknown"), msg.UrgencyOr(0.8), step)
			c.emergency = append(c.emergency, t.ID)
			slog.Info("command received report",
				"step", step, "category", cat, "location", t.Location, "task", t.ID)
		}
	}
	c.inbox = c.inbox[limit:]
}
