package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/flood-response/internal/domain"
)

// Metrics is the performance record a run produces. TaskBacklog holds one
// entry per step.
type Metrics struct {
	TotalIncidents    int     `json:"total_incidents"`
	ResolvedIncidents int     `json:"resolved_incidents"`
	AvgResponseTime   float64 `json:"avg_response_time"`
	SystemEfficiency  float64 `json:"system_efficiency"`
	BottleneckEvents  int     `json:"bottleneck_events"`
	TaskBacklog       []int   `json:"task_backlog"`
}

// collectMetrics derives the aggregate numbers from agent and task state.
// Runs at the end of every step.
func (m *Model) collectMetrics() {
	var responseTimes []int
	resolved := 0
	for _, team := range m.teams {
		responseTimes = append(responseTimes, team.ResponseTimes()...)
		resolved += team.Completed()
	}

	m.metrics.ResolvedIncidents = resolved

	if len(responseTimes) > 0 {
		sum := 0
		for _, rt := range responseTimes {
			sum += rt
		}
		m.metrics.AvgResponseTime = float64(sum) / float64(len(responseTimes))
	} else {
		m.metrics.AvgResponseTime = 0
	}

	// Efficiency = resolution rate × 1/(mean response + 1). The +1 keeps
	// the expression defined when nothing has a response time yet.
	if m.metrics.TotalIncidents > 0 {
		rate := float64(resolved) / float64(m.metrics.TotalIncidents)
		m.metrics.SystemEfficiency = rate * (1 / (m.metrics.AvgResponseTime + 1))
	}

	backlog := m.currentBacklog()
	m.metrics.TaskBacklog = append(m.metrics.TaskBacklog, backlog)

	if backlog > m.cfg.BottleneckThreshold() {
		m.metrics.BottleneckEvents++
		slog.Warn("bottleneck", "step", m.step, "backlog", backlog,
			"threshold", m.cfg.BottleneckThreshold())
	}
}

// currentBacklog measures waiting work the way the scenario defines it:
// pending emergency tasks under hierarchical command, the platform queue
// otherwise.
func (m *Model) currentBacklog() int {
	if m.cfg.Mode == domain.ModeHierarchical {
		return m.command.PendingBacklog()
	}
	if m.platform != nil {
		return m.platform.QueueLen()
	}
	return 0
}

// Metrics returns a copy of the run's metrics record.
func (m *Model) Metrics() Metrics {
	out := m.metrics
	out.TaskBacklog = append([]int(nil), m.metrics.TaskBacklog...)
	return out
}

// logStatus emits the periodic progress report.
func (m *Model) logStatus() {
	slog.Info("status report",
		"step", m.step,
		"total_incidents", m.metrics.TotalIncidents,
		"resolved", m.metrics.ResolvedIncidents,
		"avg_response_time", fmt.Sprintf("%.1f", m.metrics.AvgResponseTime),
		"efficiency", fmt.Sprintf("%.3f", m.metrics.SystemEfficiency),
		"backlog", m.currentBacklog(),
	)
}
