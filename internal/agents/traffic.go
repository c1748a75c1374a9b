package agents

import (
	"log/slog"

	"github.com/talgya/flood-response/internal/domain"
	"github.com/talgya/flood-response/internal/entropy"
)

// controlThreshold is the water depth (cm) above which a zone closes roads.
const controlThreshold = 50

// TrafficAuthority controls traffic for one geographic zone. Two states:
// idle and controlling. With standardized procedures the control takes
// effect immediately; without them it takes a random 1–3 steps.
type TrafficAuthority struct {
	Base

	zone         string
	standardized bool
	controlling  bool
	rng          *entropy.Source
}

// NewTrafficAuthority creates a zone's traffic agent.
func NewTrafficAuthority(name, zone string, standardized bool, rng *entropy.Source) *TrafficAuthority {
	return &TrafficAuthority{
		Base:         NewBase(name, domain.RoleTraffic),
		zone:         zone,
		standardized: standardized,
		rng:          rng,
	}
}

// Zone returns the geographic zone this authority covers.
func (t *TrafficAuthority) Zone() string { return t.zone }

// Controlling reports whether a control measure is active.
func (t *TrafficAuthority) Controlling() bool { return t.controlling }

// ImplementControl transitions idle → controlling when the depth exceeds
// the threshold. The ad hoc delay is drawn before the depth check so the
// random stream advances identically whether or not control engages.
func (t *TrafficAuthority) ImplementControl(depth float64, location string, step int) bool {
	delay := 0
	if !t.standardized {
		delay = t.rng.IntBetween(1, 3)
	}

	if depth <= controlThreshold || t.controlling {
		return false
	}

	t.controlling = true
	if delay > 0 {
		t.busyUntil = step + delay
		slog.Info("traffic control scheduled",
			"step", step, "zone", t.zone, "location", location, "delay", delay)
	} else {
		slog.Info("traffic control immediate",
			"step", step, "zone", t.zone, "location", location)
	}
	return true
}

// ProcessInbox first reverts controlling → idle once the busy deadline has
// passed (counted as a completed task), then handles coordination requests.
// The inbox is fully cleared every step.
func (t *TrafficAuthority) ProcessInbox(step int) {
	if t.controlling && step >= t.busyUntil {
		t.controlling = false
		t.markCompleted()
		slog.Info("traffic control completed", "step", step, "zone", t.zone)
	}

	for _, msg := range t.inbox {
		if msg.Type == domain.MsgTrafficCoordination {
			t.ImplementControl(msg.WaterDepth, msg.LocationOr("unknown"), step)
		}
	}
	t.inbox = nil
}
