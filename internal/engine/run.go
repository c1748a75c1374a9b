package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/flood-response/internal/config"
)

// statusInterval is how often Run emits a progress report.
const statusInterval = 20

// Run executes the configured number of steps and returns the final
// metrics record. A run always produces a record, even when no incident
// ever occurred.
func (m *Model) Run() Metrics {
	slog.Info("scenario starting",
		"scenario", m.cfg.Name, "mode", m.cfg.Mode,
		"steps", m.cfg.Steps, "agents", len(m.agents), "seed", m.seed)

	for i := 0; i < m.cfg.Steps; i++ {
		m.Step()
		if m.step%statusInterval == 0 {
			m.logStatus()
		}
	}

	slog.Info("scenario complete",
		"scenario", m.cfg.Name,
		"total_incidents", m.metrics.TotalIncidents,
		"resolved", m.metrics.ResolvedIncidents,
		"bottlenecks", m.metrics.BottleneckEvents)

	return m.Metrics()
}

// RunScenario builds and runs one scenario, converting panics into errors
// so a broken scenario cannot take down a batch.
func RunScenario(cfg config.Scenario, seed int64) (model *Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scenario %q panicked: %v", cfg.Name, r)
		}
	}()

	model, err = New(cfg, seed)
	if err != nil {
		return nil, err
	}
	model.Run()
	return model, nil
}

// RunBatch runs each scenario in sequence. A failed scenario is logged and
// skipped; its slot is simply absent from the result map.
func RunBatch(scenarios []config.Scenario, seed int64) map[string]Metrics {
	results := make(map[string]Metrics, len(scenarios))
	for _, cfg := range scenarios {
		model, err := RunScenario(cfg, seed)
		if err != nil {
			slog.Error("scenario failed, continuing batch",
				"scenario", cfg.Name, "error", err)
			continue
		}
		results[string(cfg.Mode)] = model.Metrics()
	}
	return results
}
