package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campushub/backend/internal/app/models"
)

func TestCan_NoticeLifecycle(t *testing.T) {
	assert.False(t, Can(models.RoleStudent, ActionCreate, ResourceNotice, false))
	assert.True(t, Can(models.RoleFaculty, ActionCreate, ResourceNotice, false))
	assert.True(t, Can(models.RoleAdmin, ActionCreate, ResourceNotice, false))

	// Faculty may edit any notice; the service downgrades foreign edits.
	assert.True(t, Can(models.RoleFaculty, ActionUpdate, ResourceNotice, false))

	// Deletion is author-only for faculty, unrestricted for admins.
	assert.True(t, Can(models.RoleFaculty, ActionDelete, ResourceNotice, true))
	assert.False(t, Can(models.RoleFaculty, ActionDelete, ResourceNotice, false))
	assert.True(t, Can(models.RoleAdmin, ActionDelete, ResourceNotice, false))
}

func TestCan_IssueAssignment(t *testing.T) {
	// Any staff member may assign and move status; students may do neither.
	assert.True(t, Can(models.RoleAdmin, ActionAssign, ResourceIssue, false))
	assert.True(t, Can(models.RoleFaculty, ActionAssign, ResourceIssue, false))
	assert.False(t, Can(models.RoleStudent, ActionAssign, ResourceIssue, false))

	assert.True(t, Can(models.RoleFaculty, ActionResolve, ResourceIssue, false))
	assert.True(t, Can(models.RoleAdmin, ActionResolve, ResourceIssue, false))
	assert.False(t, Can(models.RoleStudent, ActionResolve, ResourceIssue, true))
}

func TestCan_LostFoundModeration(t *testing.T) {
	assert.True(t, Can(models.RoleStudent, ActionCreate, ResourceLostFound, false))

	// Any authenticated role may claim.
	assert.True(t, Can(models.RoleStudent, ActionClaim, ResourceLostFound, false))
	assert.True(t, Can(models.RoleFaculty, ActionClaim, ResourceLostFound, false))
	assert.True(t, Can(models.RoleAdmin, ActionClaim, ResourceLostFound, false))

	assert.True(t, Can(models.RoleAdmin, ActionModerate, ResourceLostFound, false))
	assert.True(t, Can(models.RoleFaculty, ActionModerate, ResourceLostFound, false))
	assert.False(t, Can(models.RoleStudent, ActionModerate, ResourceLostFound, false))

	assert.True(t, Can(models.RoleStudent, ActionDelete, ResourceLostFound, true))
	assert.False(t, Can(models.RoleStudent, ActionDelete, ResourceLostFound, false))
}

func TestCan_UserAdministration(t *testing.T) {
	assert.True(t, Can(models.RoleAdmin, ActionVerify, ResourceUser, false))
	assert.True(t, Can(models.RoleFaculty, ActionVerify, ResourceUser, false))
	assert.False(t, Can(models.RoleStudent, ActionVerify, ResourceUser, false))

	// Staff browse the directory; account administration stays admin-only.
	assert.True(t, Can(models.RoleAdmin, ActionRead, ResourceUser, false))
	assert.True(t, Can(models.RoleFaculty, ActionRead, ResourceUser, false))
	assert.False(t, Can(models.RoleStudent, ActionRead, ResourceUser, false))

	assert.True(t, Can(models.RoleAdmin, ActionManage, ResourceUser, false))
	assert.False(t, Can(models.RoleFaculty, ActionManage, ResourceUser, false))
}

func TestCan_UnknownCapabilityDenied(t *testing.T) {
	assert.False(t, Can("visitor", ActionCreate, ResourceNotice, true))
	assert.False(t, Can(models.RoleStudent, Action("publish"), ResourceNotice, true))
}
