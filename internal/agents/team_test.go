package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/flood-response/internal/domain"
	"github.com/talgya/flood-response/internal/entropy"
)

func TestTeamMissionTiming(t *testing.T) {
	arena := domain.NewArena()
	team := NewResponseTeam("team-municipal-1", "municipal", 0.9, arena, entropy.New(1))
	task := arena.Create(domain.IncidentPersonTrapped, "district-1", 0.95, 8)

	// capability 0.9, urgency 0.95: execution rounds to zero, assembly is
	// one step, and outside baseline mode no sanitary check applies
	team.ExecuteMission(task.ID, 10, domain.ModeOptimized)

	assert.False(t, team.Available())
	assert.Equal(t, domain.TaskInProgress, task.Status)
	assert.Equal(t, 11, team.BusyUntil())

	team.ProcessInbox(10)
	assert.False(t, team.Available())
	assert.Equal(t, 0, team.Completed())

	team.ProcessInbox(11)
	assert.True(t, team.Available())
	assert.Equal(t, 1, team.Completed())
	assert.Equal(t, domain.TaskCompleted, task.Status)
	require.NotNil(t, task.CompletionStep)
	assert.Equal(t, 11, *task.CompletionStep)

	// response time measures from task creation, not assignment
	require.Len(t, team.ResponseTimes(), 1)
	assert.Equal(t, 3, team.ResponseTimes()[0])
	assert.Equal(t, 3.0, team.MeanResponseTime())
}

func TestTeamExecutionScalesWithCapabilityAndUrgency(t *testing.T) {
	arena := domain.NewArena()
	slow := NewResponseTeam("team-district-1", "district", 0.5, arena, entropy.New(1))
	task := arena.Create(domain.IncidentEmbankmentDanger, "district-2", 0.3, 1)

	// assembly 1 + execution int(10*0.7*1.0) = 8 steps total
	slow.ExecuteMission(task.ID, 1, domain.ModeOptimized)
	assert.Equal(t, 9, slow.BusyUntil())
}

func TestTeamSanitaryCheckOnlyInBaseline(t *testing.T) {
	arena := domain.NewArena()
	check := func(mode domain.ScenarioMode) int {
		max := 0
		for seed := int64(0); seed < 20; seed++ {
			team := NewResponseTeam("team-x", "municipal", 0.9, arena, entropy.New(seed))
			task := arena.Create(domain.IncidentPersonTrapped, "x", 0.95, 0)
			team.ExecuteMission(task.ID, 0, mode)
			if team.BusyUntil() > max {
				max = team.BusyUntil()
			}
		}
		return max
	}

	// without the sanitary check the delay is exactly assembly+execution
	assert.Equal(t, 1, check(domain.ModeOptimized))
	// in baseline mode some seeds add a 1–2 step sanitary delay
	base := check(domain.ModeBaseline)
	assert.Greater(t, base, 1)
	assert.LessOrEqual(t, base, 3)
}

func TestTeamDropsAssignmentWhileBusy(t *testing.T) {
	arena := domain.NewArena()
	team := NewResponseTeam("team-district-1", "district", 0.2, arena, entropy.New(1))

	first := arena.Create(domain.IncidentPersonTrapped, "district-1", 0.0, 1)
	second := arena.Create(domain.IncidentPersonTrapped, "district-2", 0.9, 1)

	// low urgency, low capability: a long mission
	team.ExecuteMission(first.ID, 1, domain.ModeOptimized)
	require.False(t, team.Available())

	team.Receive(domain.Message{Type: domain.MsgTaskAssignment, TaskID: second.ID, ScenarioMode: domain.ModeOptimized})
	team.ProcessInbox(2)

	// the assignment is dropped, not queued
	assert.Equal(t, domain.TaskPending, second.Status)
	assert.Equal(t, 0, team.InboxLen())
	assert.Equal(t, first.ID, team.active)
}

func TestTeamAcceptsAssignmentMessages(t *testing.T) {
	arena := domain.NewArena()

	for _, msgType := range []domain.MessageType{
		domain.MsgDirectCommand, domain.MsgTaskAssignment, domain.MsgHierarchicalAssignment,
	} {
		team := NewResponseTeam("team-x", "municipal", 0.9, arena, entropy.New(1))
		task := arena.Create(domain.IncidentPersonTrapped, "district-1", 0.95, 1)

		team.Receive(domain.Message{Type: msgType, TaskID: task.ID, ScenarioMode: domain.ModeOptimized})
		team.ProcessInbox(1)

		assert.False(t, team.Available(), "type %s", msgType)
		assert.Equal(t, domain.TaskInProgress, task.Status, "type %s", msgType)
	}
}

func TestTeamDispatchDefaults(t *testing.T) {
	arena := domain.NewArena()
	team := NewResponseTeam("team-x", "municipal", 0.85, arena, entropy.New(1))

	// response teams override the zero-valued base candidate view
	assert.Equal(t, 0.85, team.Capability())
	assert.True(t, team.Available())

	base := NewBase("command-1", domain.RoleCommand)
	assert.Equal(t, 0.0, base.Capability())
	assert.False(t, base.Available())
}
