package auth

import (
	"github.com/campushub/backend/internal/app/models"
)

// Action is something a caller wants to do to a resource.
type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionAssign   Action = "assign"   // hand an issue to a faculty member
	ActionResolve  Action = "resolve"  // change an issue's status
	ActionModerate Action = "moderate" // approve or reject a lost & found post
	ActionClaim    Action = "claim"    // claim a found item
	ActionVerify   Action = "verify"   // verify a user account
	ActionManage   Action = "manage"   // account administration (list, deactivate)
)

// Resource is the kind of object an action targets.
type Resource string

const (
	ResourceUser      Resource = "user"
	ResourceNotice    Resource = "notice"
	ResourceIssue     Resource = "issue"
	ResourceLostFound Resource = "lostfound"
)

// grant says under which ownership condition a capability applies.
type grant int

const (
	deny     grant = iota
	allowOwn       // permitted only on the caller's own resource
	allowAny       // permitted regardless of ownership
)

type capability struct {
	Role     models.RoleType
	Action   Action
	Resource Resource
}

// policy is the single authorization table. Every role check in the service
// layer goes through it, so who-may-do-what is visible in one place instead
// of scattered across handlers. Ownership means authorship of the target
// notice or lost & found post.
var policy = map[capability]grant{
	// Notices: staff publish, faculty edits of other authors' notices are
	// allowed but get downgraded by the service, admins edit freely.
	{models.RoleStudent, ActionRead, ResourceNotice}: allowAny,
	{models.RoleFaculty, ActionRead, ResourceNotice}: allowAny,
	{models.RoleAdmin, ActionRead, ResourceNotice}:   allowAny,

	{models.RoleFaculty, ActionCreate, ResourceNotice}: allowAny,
	{models.RoleAdmin, ActionCreate, ResourceNotice}:   allowAny,

	{models.RoleFaculty, ActionUpdate, ResourceNotice}: allowAny,
	{models.RoleAdmin, ActionUpdate, ResourceNotice}:   allowAny,

	{models.RoleFaculty, ActionDelete, ResourceNotice}: allowOwn,
	{models.RoleAdmin, ActionDelete, ResourceNotice}:   allowAny,

	// Issues: anyone signed in can report, staff assign and move status.
	{models.RoleStudent, ActionCreate, ResourceIssue}: allowAny,
	{models.RoleFaculty, ActionCreate, ResourceIssue}: allowAny,
	{models.RoleAdmin, ActionCreate, ResourceIssue}:   allowAny,

	{models.RoleStudent, ActionRead, ResourceIssue}: allowAny,
	{models.RoleFaculty, ActionRead, ResourceIssue}: allowAny,
	{models.RoleAdmin, ActionRead, ResourceIssue}:   allowAny,

	{models.RoleFaculty, ActionAssign, ResourceIssue}: allowAny,
	{models.RoleAdmin, ActionAssign, ResourceIssue}:   allowAny,

	{models.RoleFaculty, ActionResolve, ResourceIssue}: allowAny,
	{models.RoleAdmin, ActionResolve, ResourceIssue}:   allowAny,

	// Lost & found: anyone posts and claims, staff moderate, authors and
	// admins remove posts.
	{models.RoleStudent, ActionCreate, ResourceLostFound}: allowAny,
	{models.RoleFaculty, ActionCreate, ResourceLostFound}: allowAny,
	{models.RoleAdmin, ActionCreate, ResourceLostFound}:   allowAny,

	{models.RoleStudent, ActionRead, ResourceLostFound}: allowAny,
	{models.RoleFaculty, ActionRead, ResourceLostFound}: allowAny,
	{models.RoleAdmin, ActionRead, ResourceLostFound}:   allowAny,

	{models.RoleStudent, ActionClaim, ResourceLostFound}: allowAny,
	{models.RoleFaculty, ActionClaim, ResourceLostFound}: allowAny,
	{models.RoleAdmin, ActionClaim, ResourceLostFound}:   allowAny,

	{models.RoleFaculty, ActionModerate, ResourceLostFound}: allowAny,
	{models.RoleAdmin, ActionModerate, ResourceLostFound}:   allowAny,

	{models.RoleStudent, ActionDelete, ResourceLostFound}: allowOwn,
	{models.RoleFaculty, ActionDelete, ResourceLostFound}: allowOwn,
	{models.RoleAdmin, ActionDelete, ResourceLostFound}:   allowAny,

	// Accounts: staff browse the user directory and dashboard, admins verify
	// anyone and manage accounts, faculty verify students (the role
	// restriction lives in the user service).
	{models.RoleFaculty, ActionRead, ResourceUser}: allowAny,
	{models.RoleAdmin, ActionRead, ResourceUser}:   allowAny,

	{models.RoleAdmin, ActionVerify, ResourceUser}:   allowAny,
	{models.RoleFaculty, ActionVerify, ResourceUser}: allowAny,
	{models.RoleAdmin, ActionManage, ResourceUser}:   allowAny,
}

// Can reports whether the given role may perform action on resource.
// owner tells whether the caller owns the target resource.
func Can(role models.RoleType, action Action, resource Resource, owner bool) bool {
	switch policy[capability{Role: role, Action: action, Resource: resource}] {
	case allowAny:
		return true
	case allowOwn:
		return owner
	default:
		return false
	}
}
