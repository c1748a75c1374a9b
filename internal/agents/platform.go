package agents

import (
	"log/slog"

	"github.com/talgya/flood-response/internal/dispatch"
	"github.com/talgya/flood-response/internal/domain"
)

// Peer is the platform's view of a dispatch target: scoreable by a policy
// and able to receive the assignment message.
type Peer interface {
	dispatch.Candidate
	Receive(msg domain.Message)
}

// CoordinationPlatform ingests incident reports into a bounded task queue
// and dispatches them through an interchangeable policy. The queue's soft
// cap is twice the processing capacity; intake beyond that discards the
// incoming report.
type CoordinationPlatform struct {
	Base

	arena    *domain.Arena
	capacity int
	policy   dispatch.Policy
	mode     domain.ScenarioMode

	queue []domain.TaskID
}

// NewCoordinationPlatform creates the platform with a per-step processing
// capacity and dispatch policy.
func NewCoordinationPlatform(name string, arena *domain.Arena, capacity int, policy dispatch.Policy, mode domain.ScenarioMode) *CoordinationPlatform {
	return &CoordinationPlatform{
		Base:     NewBase(name, domain.RolePlatform),
		arena:    arena,
		capacity: capacity,
		policy:   policy,
		mode:     mode,
	}
}

// QueueLen returns the current backlog held by the platform.
func (p *CoordinationPlatform) QueueLen() int { return len(p.queue) }

// PolicyName identifies the active dispatch policy.
func (p *CoordinationPlatform) PolicyName() string { return p.policy.Name() }

// IngestReport turns an incident report into a queued task, or discards it
// when the queue is saturated. Discards are information loss under load, a
// modeled behavior rather than a fault.
func (p *CoordinationPlatform) IngestReport(msg domain.Message, step int) {
	if len(p.queue) >= p.capacity*2 {
		slog.Warn("platform saturated, report discarded",
			"step", step, "location", msg.Location, "queue", len(p.queue))
		return
	}

	cat := domain.ParseIncident(msg.Category)
	t := p.arena.Create(cat, msg.LocationOr("unknown"), msg.UrgencyOr(0.5), step)
	p.queue = append(p.queue, t.ID)
}

// DispatchTasks assigns up to the processing capacity of queued tasks to
// suitable peers and sends each one a task_assignment message.
func (p *CoordinationPlatform) DispatchTasks(peers []Peer, step int) {
	if len(p.queue) == 0 {
		return
	}

	candidates := make([]dispatch.Candidate, len(peers))
	for i, peer := range peers {
		candidates[i] = peer
	}

	assigned, remaining := p.policy.Select(p.arena, p.queue, candidates, p.capacity)
	p.queue = remaining

	for _, a := range assigned {
		target := peers[a.Candidate]
		p.Send(target, domain.Message{
			Type:         domain.MsgTaskAssignment,
			TaskID:       a.TaskID,
			ScenarioMode: p.mode,
		}, step)
		p.arena.MarkAssigned(a.TaskID, target.Name(), step)

		t := p.arena.Get(a.TaskID)
		slog.Info("platform dispatched task",
			"step", step, "task", a.TaskID, "category", t.Category,
			"target", target.Name(), "policy", p.policy.Name())
	}
}

// ProcessInbox ingests up to the processing capacity of reports per step;
// the remainder stays queued in the inbox.
func (p *CoordinationPlatform) ProcessInbox(step int) {
	limit := p.capacity
	if limit > len(p.inbox) {
		limit = len(p.inbox)
	}

	for _, msg := range p.inbox[:limit] {
		if msg.Type == domain.MsgIncidentReport {
			p.IngestReport(msg, step)
		}
	}
	p.inbox = p.inbox[limit:]
}
