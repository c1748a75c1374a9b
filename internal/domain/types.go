// Package domain defines the task and message model shared by every agent
// in the flood response simulation.
package domain

// IncidentCategory enumerates the kinds of incidents a flood event produces.
type IncidentCategory string

const (
	IncidentRoadFlooding      IncidentCategory = "road_flooding"
	IncidentEmbankmentDanger  IncidentCategory = "embankment_danger"
	IncidentCommunityFlooding IncidentCategory = "community_flooding"
	IncidentPersonTrapped     IncidentCategory = "person_trapped"
	IncidentTrafficJam        IncidentCategory = "traffic_jam"
)

// AllIncidents returns every category in a fixed order, used for random
// selection during incident generation.
func AllIncidents() []IncidentCategory {
	return []IncidentCategory{
		IncidentRoadFlooding,
		IncidentEmbankmentDanger,
		IncidentCommunityFlooding,
		IncidentPersonTrapped,
		IncidentTrafficJam,
	}
}

// incidentAliases maps shorthand labels seen in field reports to their
// canonical category.
var incidentAliases = map[string]IncidentCategory{
	"waterlogging": IncidentRoadFlooding,
	"danger":       IncidentEmbankmentDanger,
	"ponding":      IncidentCommunityFlooding,
	"trapped":      IncidentPersonTrapped,
	"jam":          IncidentTrafficJam,
}

// ParseIncident converts a free-form label to a category. Unrecognized
// labels resolve to road flooding rather than failing; field reports are
// too messy to reject outright.
func ParseIncident(label string) IncidentCategory {
	switch IncidentCategory(label) {
	case IncidentRoadFlooding, IncidentEmbankmentDanger, IncidentCommunityFlooding,
		IncidentPersonTrapped, IncidentTrafficJam:
		return IncidentCategory(label)
	}
	if c, ok := incidentAliases[label]; ok {
		return c
	}
	return IncidentRoadFlooding
}

// TaskStatus tracks the one-directional task lifecycle.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// statusRank orders statuses so transitions can be checked for regression.
func statusRank(s TaskStatus) int {
	switch s {
	case TaskPending:
		return 0
	case TaskAssigned:
		return 1
	case TaskInProgress:
		return 2
	case TaskCompleted:
		return 3
	}
	return -1
}

// Role identifies what kind of organization an agent represents.
type Role string

const (
	RoleCommand      Role = "command"
	RoleUtility      Role = "utility"
	RoleTraffic      Role = "traffic"
	RoleResponseTeam Role = "response_team"
	RoleInspector    Role = "inspector"
	RolePlatform     Role = "platform"
)

// suitability is the static role→category table used by dispatch. Community
// flooding has no handling role; those tasks stay queued until a policy
// gives up on them, which mirrors how unowned work behaves in practice.
var suitability = map[Role]map[IncidentCategory]bool{
	RoleUtility: {
		IncidentRoadFlooding: true,
	},
	RoleResponseTeam: {
		IncidentEmbankmentDanger: true,
		IncidentPersonTrapped:    true,
	},
	RoleTraffic: {
		IncidentTrafficJam: true,
	},
}

// Suitable reports whether a role handles the given incident category.
func Suitable(role Role, cat IncidentCategory) bool {
	return suitability[role][cat]
}

// ScenarioMode selects the organizational structure under test.
type ScenarioMode string

const (
	ModeBaseline     ScenarioMode = "baseline"
	ModeHierarchical ScenarioMode = "hierarchical"
	ModeOptimized    ScenarioMode = "optimized"
)

// ReportingPath is how an inspector's discoveries travel upward.
type ReportingPath string

const (
	ReportHierarchical ReportingPath = "hierarchical"
	ReportDirect       ReportingPath = "direct"
	ReportMixed        ReportingPath = "mixed"
)

// ResponseLevel is the discrete escalation tier published by the command
// authority, tier I being the most severe.
type ResponseLevel string

const (
	ResponseLevelI   ResponseLevel = "I"
	ResponseLevelII  ResponseLevel = "II"
	ResponseLevelIII ResponseLevel = "III"
	ResponseLevelIV  ResponseLevel = "IV"
)

// ResponseLevelFor maps rainfall intensity to a response level using the
// fixed 80/60/40 thresholds.
func ResponseLevelFor(intensity float64) ResponseLevel {
	switch {
	case intensity > 80:
		return ResponseLevelI
	case intensity > 60:
		return ResponseLevelII
	case intensity > 40:
		return ResponseLevelIII
	default:
		return ResponseLevelIV
	}
}

// ClampUrgency forces an urgency value into [0, 1] before storage.
func ClampUrgency(u float64) float64 {
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}

// TaskID addresses a task in the arena. IDs are monotonic and never reused.
type TaskID uint64

// Task is one incident-resolution unit of work. Once completed it is an
// immutable record kept only for metrics.
type Task struct {
	ID             TaskID           `json:"id"`
	Category       IncidentCategory `json:"category"`
	Location       string           `json:"location"`
	Urgency        float64          `json:"urgency"`
	CreateStep     int              `json:"create_step"`
	AssignedTo     string           `json:"assigned_to,omitempty"`
	StartStep      *int             `json:"start_step,omitempty"`
	CompletionStep *int             `json:"completion_step,omitempty"`
	Status         TaskStatus       `json:"status"`
}
