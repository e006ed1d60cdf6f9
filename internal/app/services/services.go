package services

import (
	"github.com/campushub/backend/internal/app/models"
)

// Actor identifies the authenticated caller. Services receive it explicitly
// so every authorization decision is visible in the call, not buried in
// context values.
type Actor struct {
	ID   int64
	Role models.RoleType
}
