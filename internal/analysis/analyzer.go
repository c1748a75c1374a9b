// Package analysis compares metrics across scenario runs and exports the
// results for downstream reporting.
package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/talgya/flood-response/internal/engine"
)

// Row is the derived comparison record for one scenario.
type Row struct {
	TotalIncidents   int     `json:"total_incidents"`
	Resolved         int     `json:"resolved_incidents"`
	ResolutionRate   float64 `json:"resolution_rate"`
	AvgResponseTime  float64 `json:"avg_response_time"`
	SystemEfficiency float64 `json:"system_efficiency"`
	BottleneckEvents int     `json:"bottleneck_events"`
	MaxBacklog       int     `json:"max_backlog"`
	MeanBacklog      float64 `json:"mean_backlog"`
}

// Analyzer accumulates per-scenario metrics and derives comparisons.
type Analyzer struct {
	order   []string
	results map[string]engine.Metrics
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{results: make(map[string]engine.Metrics)}
}

// Add records a scenario's final metrics. Insertion order is preserved for
// reporting.
func (a *Analyzer) Add(scenario string, m engine.Metrics) {
	if _, seen := a.results[scenario]; !seen {
		a.order = append(a.order, scenario)
	}
	a.results[scenario] = m
}

// Scenarios returns the recorded scenario names in insertion order.
func (a *Analyzer) Scenarios() []string {
	return append([]string(nil), a.order...)
}

// Compare derives a comparison row per scenario. All divisions are guarded;
// an empty run produces a row of zeros.
func (a *Analyzer) Compare() map[string]Row {
	out := make(map[string]Row, len(a.results))
	for name, m := range a.results {
		out[name] = deriveRow(m)
	}
	return out
}

func deriveRow(m engine.Metrics) Row {
	total := m.TotalIncidents
	if total < 1 {
		total = 1
	}

	maxBacklog, sumBacklog := 0, 0
	for _, b := range m.TaskBacklog {
		if b > maxBacklog {
			maxBacklog = b
		}
		sumBacklog += b
	}
	meanBacklog := 0.0
	if len(m.TaskBacklog) > 0 {
		meanBacklog = float64(sumBacklog) / float64(len(m.TaskBacklog))
	}

	return Row{
		TotalIncidents:   m.TotalIncidents,
		Resolved:         m.ResolvedIncidents,
		ResolutionRate:   float64(m.ResolvedIncidents) / float64(total),
		AvgResponseTime:  m.AvgResponseTime,
		SystemEfficiency: m.SystemEfficiency,
		BottleneckEvents: m.BottleneckEvents,
		MaxBacklog:       maxBacklog,
		MeanBacklog:      meanBacklog,
	}
}

// WriteComparisonTable renders the side-by-side scenario table.
func (a *Analyzer) WriteComparisonTable(w io.Writer) {
	rows := a.Compare()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "metric")
	for _, name := range a.order {
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprintln(tw)

	writeLine := func(label string, f func(Row) string) {
		fmt.Fprint(tw, label)
		for _, name := range a.order {
			fmt.Fprintf(tw, "\t%s", f(rows[name]))
		}
		fmt.Fprintln(tw)
	}

	writeLine("total incidents", func(r Row) string { return fmt.Sprintf("%d", r.TotalIncidents) })
	writeLine("resolved", func(r Row) string { return fmt.Sprintf("%d", r.Resolved) })
	writeLine("resolution rate", func(r Row) string { return fmt.Sprintf("%.1f%%", r.ResolutionRate*100) })
	writeLine("avg response time", func(r Row) string { return fmt.Sprintf("%.1f steps", r.AvgResponseTime) })
	writeLine("system efficiency", func(r Row) string { return fmt.Sprintf("%.3f", r.SystemEfficiency) })
	writeLine("bottleneck events", func(r Row) string { return fmt.Sprintf("%d", r.BottleneckEvents) })
	writeLine("max backlog", func(r Row) string { return fmt.Sprintf("%d", r.MaxBacklog) })
	writeLine("mean backlog", func(r Row) string { return fmt.Sprintf("%.1f", r.MeanBacklog) })

	tw.Flush()
}

// SafePercentChange returns (new-old)/old with the zero-denominator case
// pinned to ±1 instead of blowing up.
func SafePercentChange(newVal, oldVal float64) float64 {
	if oldVal == 0 {
		switch {
		case newVal > 0:
			return 1.0
		case newVal < 0:
			return -1.0
		default:
			return 0
		}
	}
	return (newVal - oldVal) / oldVal
}

// WriteImprovements reports the deltas between scenarios: hierarchical
// against baseline, and optimized against baseline when present.
func (a *Analyzer) WriteImprovements(w io.Writer) {
	rows := a.Compare()
	base, okB := rows["baseline"]
	hier, okH := rows["hierarchical"]
	if !okB || !okH {
		fmt.Fprintln(w, "improvement analysis needs both baseline and hierarchical results")
		return
	}

	responseChange := SafePercentChange(hier.AvgResponseTime, base.AvgResponseTime)
	efficiencyChange := SafePercentChange(base.SystemEfficiency, hier.SystemEfficiency)

	fmt.Fprintf(w, "response time, hierarchical vs baseline: %+.1f%% (%.1f vs %.1f steps)\n",
		responseChange*100, hier.AvgResponseTime, base.AvgResponseTime)
	fmt.Fprintf(w, "system efficiency, baseline vs hierarchical: %+.1f%% (%.3f vs %.3f)\n",
		efficiencyChange*100, base.SystemEfficiency, hier.SystemEfficiency)
	fmt.Fprintf(w, "resolution rate: baseline %.1f%%, hierarchical %.1f%% (max backlog %d, mean %.1f)\n",
		base.ResolutionRate*100, hier.ResolutionRate*100, hier.MaxBacklog, hier.MeanBacklog)

	if opt, ok := rows["optimized"]; ok {
		timeChange := SafePercentChange(opt.AvgResponseTime, base.AvgResponseTime)
		resolutionChange := SafePercentChange(opt.ResolutionRate, base.ResolutionRate)
		fmt.Fprintf(w, "optimized vs baseline: response time %+.1f%%, resolution rate %+.1f%%, bottlenecks %+d\n",
			timeChange*100, resolutionChange*100, base.BottleneckEvents-opt.BottleneckEvents)
	}
}

// WriteFindings narrates what the comparison shows, one block per scenario
// that produced data.
func (a *Analyzer) WriteFindings(w io.Writer) {
	rows := a.Compare()

	if hier, ok := rows["hierarchical"]; ok {
		base := rows["baseline"]
		fmt.Fprintf(w, "Limits of pure hierarchy: resolution rate %.1f%% against the baseline's %.1f%%; "+
			"response time differs by %+.1f steps; backlog peaked at %d tasks.\n",
			hier.ResolutionRate*100, base.ResolutionRate*100,
			hier.AvgResponseTime-base.AvgResponseTime, hier.MaxBacklog)
	}

	if base, ok := rows["baseline"]; ok {
		fmt.Fprintf(w, "Mixed practice: the platform absorbed the report flow while direct command "+
			"shortened critical dispatches; resolution rate %.1f%% at %.1f steps mean response.\n",
			base.ResolutionRate*100, base.AvgResponseTime)
	}

	if opt, ok := rows["optimized"]; ok {
		base := rows["baseline"]
		fmt.Fprintf(w, "Rule optimization: resolution rate moved from %.1f%% to %.1f%% without new "+
			"structure; bottleneck events changed by %+d.\n",
			base.ResolutionRate*100, opt.ResolutionRate*100,
			opt.BottleneckEvents-base.BottleneckEvents)
	}
}

// Export is the JSON document written at the end of a comparison run.
type Export struct {
	Results    map[string]engine.Metrics `json:"results"`
	Comparison map[string]Row            `json:"comparison"`
}

// ExportJSON writes the raw metrics and derived comparison to a file.
func (a *Analyzer) ExportJSON(path string) error {
	doc := Export{
		Results:    a.results,
		Comparison: a.Compare(),
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write results file %s: %w", path, err)
	}
	return nil
}
