package engine

import (
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/talgya/flood-response/internal/agents"
	"github.com/talgya/flood-response/internal/domain"
)

// Coordination trigger thresholds (rainfall intensity, mm).
const (
	coordinationRainThreshold  = 60
	directCommandRainThreshold = 80
	directCommandWarmup        = 10
)

// hierarchicalDispatchLimit caps how many due emergency tasks the manual
// pass assigns per step.
const hierarchicalDispatchLimit = 2

// Step advances the simulation by one unit of time. The phase order is
// fixed; later phases consume tasks and messages created earlier in the
// same step.
func (m *Model) Step() {
	m.step++

	rainfall := m.generateRainfall()
	slog.Info("step begins", "step", m.step, "scenario", m.cfg.Name,
		"rainfall", fmt.Sprintf("%.1f", rainfall))

	m.command.IssueResponseLevel(rainfall, m.step)

	m.generateIncidents(rainfall)

	m.routeInspectorReports(rainfall)

	for _, a := range m.agents {
		a.ProcessInbox(m.step)
	}

	if m.platform != nil {
		m.platform.DispatchTasks(m.dispatchPeers(), m.step)
	}

	if m.cfg.Mode == domain.ModeHierarchical {
		m.hierarchicalDispatch()
	}

	m.runCoordination(rainfall)

	m.collectMetrics()
}

// generateRainfall produces the step's weather intensity: calm early,
// building mid-run, with a 30% chance of extreme downpours late.
func (m *Model) generateRainfall() float64 {
	var base float64
	switch {
	case m.step < 20:
		base = m.rng.Uniform(20, 40)
	case m.step < 50:
		base = m.rng.Uniform(40, 80)
	default:
		if m.rng.Float() < 0.3 {
			base = m.rng.Uniform(80, 120)
		} else {
			base = m.rng.Uniform(30, 60)
		}
	}
	m.rainfall = append(m.rainfall, base)
	return base
}

// recordIncident appends to the incident log and counts toward the run
// total. Every incident entering the system passes through here, whether
// generated by weather, discovered on patrol, or raised by coordination, so
// resolved counts can never lead the total.
func (m *Model) recordIncident(rec IncidentRecord) {
	m.incidents = append(m.incidents, rec)
	m.metrics.TotalIncidents++
}

// generateIncidents rolls for zero, one or two new incidents, weighted by
// rainfall. Generated incidents are counted and logged; discovery and
// routing happen through inspectors.
func (m *Model) generateIncidents(rainfall float64) {
	p := 0.2 + rainfall/200
	if p > 0.6 {
		p = 0.6
	}

	count := m.rng.Weighted([]float64{1 - p, p * 0.7, p * 0.3})

	cats := domain.AllIncidents()
	for i := 0; i < count; i++ {
		cat := cats[m.rng.Pick(len(cats))]
		location := fmt.Sprintf("district-%d", m.rng.IntBetween(1, 20))

		maxDepth := rainfall + 20
		if maxDepth > 120 {
			maxDepth = 120
		}
		depth := m.rng.Uniform(10, maxDepth)

		urgency := 0.3 + depth/100
		if urgency > 0.95 {
			urgency = 0.95
		}

		m.recordIncident(IncidentRecord{
			Step:       m.step,
			Category:   cat,
			Location:   location,
			WaterDepth: depth,
			Urgency:    urgency,
		})

		slog.Info("incident generated",
			"step", m.step, "category", cat, "location", location,
			"water_depth", fmt.Sprintf("%.1f", depth))
	}
}

// routeInspectorReports runs every patrol and routes discoveries according
// to the scenario mode and the inspector's configured path.
func (m *Model) routeInspectorReports(rainfall float64) {
	for _, ins := range m.inspectors {
		report, found := ins.Patrol(m.step, rainfall)
		if !found {
			continue
		}

		m.recordIncident(IncidentRecord{
			Step:       m.step,
			Category:   domain.ParseIncident(report.Category),
			Location:   report.Location,
			WaterDepth: report.WaterDepth,
			Urgency:    report.Urgency,
		})

		switch m.cfg.Mode {
		case domain.ModeHierarchical:
			m.escalateReport(report, ins)
		default:
			if ins.ReportingPath() == domain.ReportDirect || ins.ReportingPath() == domain.ReportMixed {
				if m.platform != nil {
					ins.Send(m.platform, report, m.step)
					slog.Debug("report submitted to platform",
						"step", m.step, "inspector", ins.Name())
				}
			}
		}
	}
}

// escalateReport models hierarchical reporting: the incident climbs the
// chain for a random 3–8 steps before it becomes a dispatchable emergency
// task at the command authority.
func (m *Model) escalateReport(report domain.Message, ins *agents.FieldInspector) {
	if ins.ReportingPath() != domain.ReportHierarchical {
		return
	}

	delay := m.rng.IntBetween(3, 8)
	cat := domain.ParseIncident(report.Category)

	t := m.arena.Create(cat, report.LocationOr("unknown"), report.UrgencyOr(0.5), m.step+delay)
	m.command.EnqueueEmergency(t.ID)

	slog.Info("report escalating through hierarchy",
		"step", m.step, "inspector", ins.Name(), "category", cat,
		"arrives_at", m.step+delay, "task", t.ID)
}

// dispatchPeers returns every agent except the platform, in creation
// order, as dispatch targets.
func (m *Model) dispatchPeers() []agents.Peer {
	var peers []agents.Peer
	for _, a := range m.agents {
		if a.Role() == domain.RolePlatform {
			continue
		}
		if p, ok := a.(agents.Peer); ok {
			peers = append(peers, p)
		}
	}
	return peers
}

// hierarchicalDispatch is the manual pass in the pure-tree scenario: the
// command authority hands out up to two due emergency tasks to available
// teams in list order.
func (m *Model) hierarchicalDispatch() {
	due := m.command.DueEmergencies(m.step)
	if len(due) == 0 {
		return
	}

	teams := m.availableTeams()
	if len(teams) == 0 {
		return
	}

	limit := hierarchicalDispatchLimit
	if limit > len(due) {
		limit = len(due)
	}

	for _, id := range due[:limit] {
		team := teams[0]
		t := m.arena.Get(id)

		slog.Info("hierarchical dispatch",
			"step", m.step, "team", team.Name(), "category", t.Category, "task", id)

		m.command.Send(team, domain.Message{
			Type:         domain.MsgHierarchicalAssignment,
			TaskID:       id,
			Priority:     "medium",
			ScenarioMode: m.cfg.Mode,
		}, m.step)
		m.arena.MarkAssigned(id, team.Name(), m.step)
		m.command.RemoveEmergency(id)

		teams = teams[1:]
		if len(teams) == 0 {
			break
		}
	}
}

// runCoordination is the cross-agency phase: drainage probes under heavy
// rain, and direct command dispatch of a manufactured embankment-danger
// task under extreme rain after the warm-up period.
func (m *Model) runCoordination(rainfall float64) {
	if rainfall > coordinationRainThreshold {
		location := fmt.Sprintf("district-%d", m.rng.IntBetween(1, 10))
		depth := m.rng.Uniform(40, 80)

		result := m.utility.ScheduleDrainage(depth, location, m.step)
		if result == agents.DrainageWithTrafficControl && len(m.traffic) > 0 {
			zone := m.traffic[zoneIndex(location, len(m.traffic))]
			zone.Receive(domain.Message{
				Type:       domain.MsgTrafficCoordination,
				From:       "coordination",
				Timestamp:  m.step,
				WaterDepth: depth,
				Location:   location,
			})
			slog.Info("traffic coordination requested",
				"step", m.step, "zone", zone.Zone(), "location", location)
		}
	}

	if rainfall > directCommandRainThreshold && m.step > directCommandWarmup &&
		m.command.DirectCommandEnabled() {
		team := m.firstAvailableTeam()
		if team == nil {
			return
		}

		location := fmt.Sprintf("emergency-zone-%d", m.rng.IntBetween(1, 5))
		t := m.arena.Create(domain.IncidentEmbankmentDanger, location, 0.95, m.step)
		m.recordIncident(IncidentRecord{
			Step:     m.step,
			Category: domain.IncidentEmbankmentDanger,
			Location: location,
			Urgency:  0.95,
		})
		m.command.DirectDispatch(team, t.ID, m.step)
	}
}

// zoneIndex deterministically maps a location label to a traffic zone, so
// the same location always lands in the same zone within a run.
func zoneIndex(location string, zones int) int {
	h := fnv.New32a()
	h.Write([]byte(location))
	return int(h.Sum32() % uint32(zones))
}
