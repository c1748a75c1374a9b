package agents

import (
	"fmt"
	"log/slog"

	"github.com/talgya/flood-response/internal/domain"
	"github.com/talgya/flood-response/internal/entropy"
)

// defaultDiscoveryProbability scales how often an inspector actually spots
// an incident that the weather makes likely.
const defaultDiscoveryProbability = 0.8

// FieldInspector patrols a range and reports incidents. A pure producer:
// it never consumes messages, and where its reports travel (platform,
// command, or both) is the step driver's decision.
type FieldInspector struct {
	Base

	patrolRange          string
	reportingPath        domain.ReportingPath
	discoveryProbability float64
	rng                  *entropy.Source
}

// NewFieldInspector creates an inspector for one patrol range.
func NewFieldInspector(name, patrolRange string, path domain.ReportingPath, rng *entropy.Source) *FieldInspector {
	return &FieldInspector{
		Base:                 NewBase(name, domain.RoleInspector),
		patrolRange:          patrolRange,
		reportingPath:        path,
		discoveryProbability: defaultDiscoveryProbability,
		rng:                  rng,
	}
}

// PatrolRange returns the area this inspector covers.
func (f *FieldInspector) PatrolRange() string { return f.patrolRange }

// ReportingPath returns the configured path for this inspector's reports.
func (f *FieldInspector) ReportingPath() domain.ReportingPath { return f.reportingPath }

// Patrol rolls for a discovery. The discovery rate grows with rainfall up
// to a 0.9 cap. Returns the incident report and true when something was
// found.
func (f *FieldInspector) Patrol(step int, rainfall float64) (domain.Message, bool) {
	rate := 0.3 + rainfall/150
	if rate > 0.9 {
		rate = 0.9
	}

	if f.rng.Float() >= rate*f.discoveryProbability {
		return domain.Message{}, false
	}

	cats := domain.AllIncidents()
	cat := cats[f.rng.Pick(len(cats))]
	location := fmt.Sprintf("%s-%d", f.patrolRange, f.rng.IntBetween(1, 10))
	depth := f.rng.Uniform(20, rainfall)
	urgency := 0.3 + depth/100
	if urgency > 0.95 {
		urgency = 0.95
	}

	slog.Info("incident discovered",
		"step", step, "inspector", f.Name(), "category", cat,
		"location", location, "water_depth", fmt.Sprintf("%.1f", depth))

	return domain.Message{
		Type:       domain.MsgIncidentReport,
		Category:   string(cat),
		Location:   location,
		WaterDepth: depth,
		Urgency:    urgency,
		Timestamp:  step,
	}, true
}

// ProcessInbox is a no-op; inspectors only produce.
func (f *FieldInspector) ProcessInbox(step int) {}
