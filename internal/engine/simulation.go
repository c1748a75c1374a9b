// Package engine drives the flood response simulation: one Model per
// scenario run, advanced step by step through a fixed phase pipeline.
package engine

import (
	"fmt"

	"github.com/talgya/flood-response/internal/agents"
	"github.com/talgya/flood-response/internal/config"
	"github.com/talgya/flood-response/internal/dispatch"
	"github.com/talgya/flood-response/internal/domain"
	"github.com/talgya/flood-response/internal/entropy"
)

// IncidentRecord is one generated incident, kept for the run log.
type IncidentRecord struct {
	Step       int                     `json:"step"`
	Category   domain.IncidentCategory `json:"category"`
	Location   string                  `json:"location"`
	WaterDepth float64                 `json:"water_depth"`
	Urgency    float64                 `json:"urgency"`
}

// Model holds the complete state of one scenario run. The step driver is
// the sole orchestrator; agents only act when invoked here or when a
// message lands in their inbox.
type Model struct {
	cfg  config.Scenario
	seed int64
	rng  *entropy.Source

	arena *domain.Arena

	// agents in creation order; that order is the documented iteration
	// policy for inbox processing and dispatch candidate scanning.
	agents     []agents.Agent
	command    *agents.CommandAuthority
	utility    *agents.UtilityService
	traffic    []*agents.TrafficAuthority
	teams      []*agents.ResponseTeam
	inspectors []*agents.FieldInspector
	platform   *agents.CoordinationPlatform // nil when the scenario disables it

	step      int
	rainfall  []float64
	incidents []IncidentRecord
	metrics   Metrics
}

// New builds a model from a scenario configuration and a seed. All
// stochastic behavior draws from a single stream created here.
func New(cfg config.Scenario, seed int64) (*Model, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("scenario %q: steps must be positive, got %d", cfg.Name, cfg.Steps)
	}
	if cfg.NumInspectors > len(cfg.PatrolRanges) {
		return nil, fmt.Errorf("scenario %q: %d inspectors but only %d patrol ranges",
			cfg.Name, cfg.NumInspectors, len(cfg.PatrolRanges))
	}

	m := &Model{
		cfg:   cfg,
		seed:  seed,
		rng:   entropy.New(seed),
		arena: domain.NewArena(),
	}

	m.command = agents.NewCommandAuthority("command-1", m.arena, cfg.Mode, cfg.DirectCommandEnabled)
	m.agents = append(m.agents, m.command)

	m.utility = agents.NewUtilityService("utility-1", m.arena, cfg.MobilePumps)
	m.agents = append(m.agents, m.utility)

	for _, zone := range cfg.TrafficZones {
		ta := agents.NewTrafficAuthority("traffic-"+zone, zone, cfg.StandardizedProcedures, m.rng)
		m.traffic = append(m.traffic, ta)
		m.agents = append(m.agents, ta)
	}

	for i, spec := range cfg.RescueTeams {
		name := fmt.Sprintf("team-%s-%d", spec.Type, i+1)
		team := agents.NewResponseTeam(name, spec.Type, spec.Capability, m.arena, m.rng)
		m.teams = append(m.teams, team)
		m.agents = append(m.agents, team)
	}

	for i := 0; i < cfg.NumInspectors; i++ {
		area := cfg.PatrolRanges[i]
		ins := agents.NewFieldInspector("inspector-"+area, area, cfg.ReportingPath, m.rng)
		m.inspectors = append(m.inspectors, ins)
		m.agents = append(m.agents, ins)
	}

	if cfg.InfoPlatformEnabled {
		policy := dispatch.ForMode(cfg.IntelligentMatching)
		m.platform = agents.NewCoordinationPlatform(
			"platform-1", m.arena, cfg.PlatformCapacity, policy, cfg.Mode)
		m.agents = append(m.agents, m.platform)
	}

	return m, nil
}

// CurrentStep returns the most recently processed step.
func (m *Model) CurrentStep() int { return m.step }

// Seed returns the seed this run was created with.
func (m *Model) Seed() int64 { return m.seed }

// Config returns the scenario configuration.
func (m *Model) Config() config.Scenario { return m.cfg }

// Arena exposes the task store, mainly for inspection in tests.
func (m *Model) Arena() *domain.Arena { return m.arena }

// Incidents returns the generated incident log.
func (m *Model) Incidents() []IncidentRecord { return m.incidents }

// RainfallHistory returns the per-step rainfall intensities.
func (m *Model) RainfallHistory() []float64 { return m.rainfall }

// Command returns the command authority agent.
func (m *Model) Command() *agents.CommandAuthority { return m.command }

// Platform returns the coordination platform, or nil when disabled.
func (m *Model) Platform() *agents.CoordinationPlatform { return m.platform }

// Teams returns the response teams in creation order.
func (m *Model) Teams() []*agents.ResponseTeam { return m.teams }

// firstAvailableTeam returns the first ready team in creation order, or nil.
func (m *Model) firstAvailableTeam() *agents.ResponseTeam {
	for _, t := range m.teams {
		if t.Available() {
			return t
		}
	}
	return nil
}

// availableTeams returns the ready teams in creation order.
func (m *Model) availableTeams() []*agents.ResponseTeam {
	var out []*agents.ResponseTeam
	for _, t := range m.teams {
		if t.Available() {
			out = append(out, t)
		}
	}
	return out
}
