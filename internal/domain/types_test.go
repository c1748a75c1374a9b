package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIncident(t *testing.T) {
	assert.Equal(t, IncidentPersonTrapped, ParseIncident("person_trapped"))
	assert.Equal(t, IncidentTrafficJam, ParseIncident("traffic_jam"))

	// shorthand labels from field reports
	assert.Equal(t, IncidentRoadFlooding, ParseIncident("waterlogging"))
	assert.Equal(t, IncidentEmbankmentDanger, ParseIncident("danger"))
	assert.Equal(t, IncidentCommunityFlooding, ParseIncident("ponding"))
	assert.Equal(t, IncidentPersonTrapped, ParseIncident("trapped"))
	assert.Equal(t, IncidentTrafficJam, ParseIncident("jam"))

	// garbage resolves to road flooding instead of failing
	assert.Equal(t, IncidentRoadFlooding, ParseIncident("???"))
	assert.Equal(t, IncidentRoadFlooding, ParseIncident(""))
}

func TestResponseLevelFor(t *testing.T) {
	assert.Equal(t, ResponseLevelI, ResponseLevelFor(85))
	assert.Equal(t, ResponseLevelII, ResponseLevelFor(80)) // boundary: not > 80
	assert.Equal(t, ResponseLevelII, ResponseLevelFor(61))
	assert.Equal(t, ResponseLevelIII, ResponseLevelFor(60))
	assert.Equal(t, ResponseLevelIII, ResponseLevelFor(41))
	assert.Equal(t, ResponseLevelIV, ResponseLevelFor(40))
	assert.Equal(t, ResponseLevelIV, ResponseLevelFor(0))
}

func TestClampUrgency(t *testing.T) {
	assert.Equal(t, 0.0, ClampUrgency(-0.2))
	assert.Equal(t, 0.5, ClampUrgency(0.5))
	assert.Equal(t, 1.0, ClampUrgency(1.7))
}

func TestSuitable(t *testing.T) {
	assert.True(t, Suitable(RoleUtility, IncidentRoadFlooding))
	assert.True(t, Suitable(RoleResponseTeam, IncidentEmbankmentDanger))
	assert.True(t, Suitable(RoleResponseTeam, IncidentPersonTrapped))
	assert.True(t, Suitable(RoleTraffic, IncidentTrafficJam))

	// community flooding has no handling role
	for _, role := range []Role{RoleCommand, RoleUtility, RoleTraffic, RoleResponseTeam, RoleInspector, RolePlatform} {
		assert.False(t, Suitable(role, IncidentCommunityFlooding), "role %s", role)
	}

	assert.False(t, Suitable(RoleUtility, IncidentPersonTrapped))
	assert.False(t, Suitable(RoleCommand, IncidentRoadFlooding))
}
