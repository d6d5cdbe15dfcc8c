package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSprintWrite_ParentMustBePhase(t *testing.T) {
	existing := []Sprint{
		{ID: "ph-1", ProjectID: "p1", Kind: SprintKindPhase, Status: SprintPlanning},
		{ID: "sp-1", ProjectID: "p1", Kind: SprintKindSprint, Status: SprintActive},
	}

	ok := &Sprint{ID: "sp-2", ProjectID: "p1", Kind: SprintKindSprint, Status: SprintPlanning, ParentID: "ph-1"}
	require.NoError(t, ValidateSprintWrite(ok, existing))

	badParent := &Sprint{ID: "sp-3", ProjectID: "p1", Kind: SprintKindSprint, Status: SprintPlanning, ParentID: "sp-1"}
	err := ValidateSprintWrite(badParent, existing)
	require.Error(t, err)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)

	missingParent := &Sprint{ID: "sp-4", ProjectID: "p1", Kind: SprintKindSprint, Status: SprintPlanning, ParentID: "nope"}
	assert.ErrorAs(t, ValidateSprintWrite(missingParent, existing), &validation)
}

func TestValidateSprintWrite_MilestoneLinks(t *testing.T) {
	existing := []Sprint{
		{ID: "sp-1", ProjectID: "p1", Kind: SprintKindSprint, Status: SprintActive},
		{ID: "ph-1", ProjectID: "p1", Kind: SprintKindPhase, Status: SprintPlanning},
		{ID: "ms-1", ProjectID: "p1", Kind: SprintKindMilestone, Status: SprintPlanning},
	}

	ok := &Sprint{ID: "ms-2", ProjectID: "p1", Kind: SprintKindMilestone, Status: SprintPlanning, LinkedSprintIDs: []string{"sp-1", "ph-1"}}
	require.NoError(t, ValidateSprintWrite(ok, existing))

	var validation *ValidationError

	notMilestone := &Sprint{ID: "sp-2", ProjectID: "p1", Kind: SprintKindSprint, Status: SprintPlanning, LinkedSprintIDs: []string{"sp-1"}}
	assert.ErrorAs(t, ValidateSprintWrite(notMilestone, existing), &validation)

	linksMilestone := &Sprint{ID: "ms-3", ProjectID: "p1", Kind: SprintKindMilestone, Status: SprintPlanning, LinkedSprintIDs: []string{"ms-1"}}
	assert.ErrorAs(t, ValidateSprintWrite(linksMilestone, existing), &validation)

	linksMissing := &Sprint{ID: "ms-4", ProjectID: "p1", Kind: SprintKindMilestone, Status: SprintPlanning, LinkedSprintIDs: []string{"ghost"}}
	assert.ErrorAs(t, ValidateSprintWrite(linksMissing, existing), &validation)
}

func TestSprintPatch_Apply(t *testing.T) {
	s := Sprint{ID: "sp-1", Name: "Iteration 1", Status: SprintPlanning, Order: 1}

	name := "Iteration 1a"
	status := SprintActive
	SprintPatch{Name: &name, Status: &status}.Apply(&s)

	assert.Equal(t, "Iteration 1a", s.Name)
	assert.Equal(t, SprintActive, s.Status)
	assert.Equal(t, 1, s.Order, "unset patch fields are untouched")
}

func TestValidateNewWorkspace_ExactlyOneOwner(t *testing.T) {
	base := Workspace{ID: "w1", Name: "Acme", Kind: KindTeam}

	w := base
	w.Members = []Member{{UserID: "u1", Role: RoleOwner}, {UserID: "u2", Role: RoleMember}}
	require.NoError(t, ValidateNewWorkspace(&w))

	var validation *ValidationError

	w = base
	w.Members = []Member{{UserID: "u1", Role: RoleAdmin}}
	assert.ErrorAs(t, ValidateNewWorkspace(&w), &validation)

	w = base
	w.Members = []Member{{UserID: "u1", Role: RoleOwner}, {UserID: "u2", Role: RoleOwner}}
	assert.ErrorAs(t, ValidateNewWorkspace(&w), &validation)

	w = base
	w.Members = []Member{{UserID: "u1", Role: RoleOwner}, {UserID: "u1", Role: RoleMember}}
	assert.ErrorAs(t, ValidateNewWorkspace(&w), &validation)
}
