// Package config provides scenario configuration: built-in tables for the
// three organizational scenarios plus optional TOML override files.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/talgya/flood-response/internal/domain"
)

// TeamSpec describes one response team to create.
type TeamSpec struct {
	Type       string  `toml:"type"`
	Capability float64 `toml:"capability"`
}

// Scenario is the configuration record consumed at model construction.
// Unknown keys in a TOML file are ignored; missing keys keep the baseline
// defaults.
type Scenario struct {
	Name                   string               `toml:"name"`
	Mode                   domain.ScenarioMode  `toml:"mode"`
	Steps                  int                  `toml:"steps"`
	InfoPlatformEnabled    bool                 `toml:"info_platform_enabled"`
	DirectCommandEnabled   bool                 `toml:"direct_command_enabled"`
	StandardizedProcedures bool                 `toml:"standardized_procedures"`
	IntelligentMatching    bool                 `toml:"intelligent_matching"`
	ReportingPath          domain.ReportingPath `toml:"reporting_path"`
	PlatformCapacity       int                  `toml:"platform_capacity"`
	MobilePumps            int                  `toml:"mobile_pumps"`
	NumInspectors          int                  `toml:"num_inspectors"`
	TrafficZones           []string             `toml:"traffic_zones"`
	PatrolRanges           []string             `toml:"patrol_ranges"`
	RescueTeams            []TeamSpec           `toml:"rescue_teams"`
}

// defaultPatrolRanges caps how many inspector posts exist regardless of the
// configured count.
var defaultPatrolRanges = []string{
	"levee-a", "levee-b", "street-c", "street-d",
	"community-e", "community-f", "sector-g", "sector-h",
}

// Baseline is the mixed-practice configuration: platform plus direct
// command, ad hoc procedures, first-match dispatch.
func Baseline() Scenario {
	return Scenario{
		Name:                 "baseline (mixed practice)",
		Mode:                 domain.ModeBaseline,
		Steps:                80,
		InfoPlatformEnabled:  true,
		DirectCommandEnabled: true,
		ReportingPath:        domain.ReportMixed,
		PlatformCapacity:     15,
		MobilePumps:          10,
		NumInspectors:        6,
		TrafficZones:         []string{"riverbank-north", "central", "harbor-west"},
		PatrolRanges:         defaultPatrolRanges,
		RescueTeams: []TeamSpec{
			{Type: "municipal", Capability: 0.9},
			{Type: "state-enterprise", Capability: 0.8},
			{Type: "district", Capability: 0.7},
			{Type: "contractor", Capability: 0.75},
		},
	}
}

// Hierarchical is the pure tree-command configuration: no platform, no
// direct command, every report escalates through the chain.
func Hierarchical() Scenario {
	s := Baseline()
	s.Name = "hierarchical (pure tree command)"
	s.Mode = domain.ModeHierarchical
	s.InfoPlatformEnabled = false
	s.DirectCommandEnabled = false
	s.ReportingPath = domain.ReportHierarchical
	s.PlatformCapacity = 0
	return s
}

// Optimized is the institutionalized coordination network: bigger platform,
// standardized procedures, priority-ranked matching, more teams.
func Optimized() Scenario {
	s := Baseline()
	s.Name = "optimized (coordination network)"
	s.Mode = domain.ModeOptimized
	s.StandardizedProcedures = true
	s.IntelligentMatching = true
	s.ReportingPath = domain.ReportDirect
	s.PlatformCapacity = 30
	s.NumInspectors = 8
	s.TrafficZones = []string{"riverbank-north", "central", "harbor-west", "south-bank"}
	s.RescueTeams = []TeamSpec{
		{Type: "municipal", Capability: 0.9},
		{Type: "state-enterprise", Capability: 0.85},
		{Type: "district", Capability: 0.8},
		{Type: "contractor", Capability: 0.8},
		{Type: "volunteer", Capability: 0.7},
		{Type: "mobile", Capability: 0.75},
	}
	return s
}

// Builtin returns a named built-in scenario.
func Builtin(name string) (Scenario, bool) {
	switch domain.ScenarioMode(name) {
	case domain.ModeBaseline:
		return Baseline(), true
	case domain.ModeHierarchical:
		return Hierarchical(), true
	case domain.ModeOptimized:
		return Optimized(), true
	}
	return Scenario{}, false
}

// Names lists the built-in scenarios in comparison order.
func Names() []string {
	return []string{
		string(domain.ModeBaseline),
		string(domain.ModeHierarchical),
		string(domain.ModeOptimized),
	}
}

// Load reads a TOML scenario file over the baseline defaults, so partial
// files only need the keys they change.
func Load(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario file %s: %w", path, err)
	}

	s := Baseline()
	if _, err := toml.Decode(string(raw), &s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario file %s: %w", path, err)
	}
	s.normalize()
	return s, nil
}

// normalize backfills values a hand-written file may leave out or set to
// something unusable.
func (s *Scenario) normalize() {
	if s.Steps <= 0 {
		s.Steps = 80
	}
	if s.Mode == "" {
		s.Mode = domain.ModeBaseline
	}
	if s.ReportingPath == "" {
		s.ReportingPath = domain.ReportMixed
	}
	if s.MobilePumps <= 0 {
		s.MobilePumps = 10
	}
	if len(s.PatrolRanges) == 0 {
		s.PatrolRanges = defaultPatrolRanges
	}
	if s.NumInspectors <= 0 {
		s.NumInspectors = len(s.PatrolRanges)
	}
	if s.NumInspectors > len(s.PatrolRanges) {
		s.NumInspectors = len(s.PatrolRanges)
	}
}

// BottleneckThreshold is the backlog level above which a step counts as a
// bottleneck event. The optimized scenario tolerates a deeper queue.
func (s Scenario) BottleneckThreshold() int {
	if s.Mode == domain.ModeOptimized {
		return 20
	}
	return 10
}
