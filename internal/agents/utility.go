package agents

import (
	"log/slog"

	"github.com/talgya/flood-response/internal/domain"
)

// Drainage thresholds in centimeters of standing water.
const (
	drainageDepthThreshold = 30
	trafficDepthThreshold  = 50
	pumpsPerDeployment     = 3
)

// DrainageResult is the tri-state outcome of a drainage request.
type DrainageResult int

const (
	DrainageNone DrainageResult = iota
	DrainageOnly
	DrainageWithTrafficControl
)

// UtilityService is the drainage authority. It owns a finite pool of mobile
// pump units; units committed to a deployment are consumed for the rest of
// the run.
type UtilityService struct {
	Base

	arena          *domain.Arena
	pumpsAvailable int
	drainage       []domain.TaskID
}

// NewUtilityService creates the drainage agent with the given pump pool.
func NewUtilityService(name string, arena *domain.Arena, pumps int) *UtilityService {
	return &UtilityService{
		Base:           NewBase(name, domain.RoleUtility),
		arena:          arena,
		pumpsAvailable: pumps,
	}
}

// PumpsAvailable returns the remaining pool size.
func (u *UtilityService) PumpsAvailable() int { return u.pumpsAvailable }

// DrainageTasks returns the IDs of every drainage deployment so far.
func (u *UtilityService) DrainageTasks() []domain.TaskID { return u.drainage }

// ScheduleDrainage commits pump units to a flooded location when the depth
// warrants it. A depleted pool means no action regardless of depth.
func (u *UtilityService) ScheduleDrainage(depth float64, location string, step int) DrainageResult {
	if depth <= drainageDepthThreshold || u.pumpsAvailable <= 0 {
		return DrainageNone
	}

	pumps := pumpsPerDeployment
	if pumps > u.pumpsAvailable {
		pumps = u.pumpsAvailable
	}
	u.pumpsAvailable -= pumps

	t := u.arena.Create(domain.IncidentRoadFlooding, location, 0.7, step)
	u.drainage = append(u.drainage, t.ID)

	slog.Info("drainage deployed",
		"step", step, "location", location, "pumps", pumps,
		"remaining", u.pumpsAvailable, "task", t.ID)

	if depth > trafficDepthThreshold {
		return DrainageWithTrafficControl
	}
	return DrainageOnly
}

// ProcessInbox handles every drainage request and fully clears the inbox;
// the utility has no per-step throughput cap.
func (u *UtilityService) ProcessInbox(step int) {
	for _, msg := range u.inbox {
		if msg.Type == domain.MsgDrainageRequest {
			u.ScheduleDrainage(msg.WaterDepth, msg.LocationOr("unknown"), step)
		}
	}
	u.inbox = nil
}
