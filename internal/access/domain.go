package access

import (
	"errors"
	"time"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	ErrRoleNotFound   = errors.New("role not found")
	ErrGroupNotFound  = errors.New("user group not found")
	ErrModuleNotFound = errors.New("module not found")
	ErrInvalidAction  = errors.New("invalid action")
	ErrInvalidToken   = errors.New("invalid permission token")
	ErrNameRequired   = errors.New("name is required")
)

// ============================================================================
// DOMAIN TYPES
// ============================================================================

// Action is one of the five permission actions every module exposes.
type Action string

const (
	ActionView    Action = "VIEW"
	ActionAdd     Action = "ADD"
	ActionEdit    Action = "EDIT"
	ActionDelete  Action = "DELETE"
	ActionApprove Action = "APPROVE"
)

// Actions lists every action in a stable order.
func Actions() []Action {
	return []Action{ActionView, ActionAdd, ActionEdit, ActionDelete, ActionApprove}
}

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	switch a {
	case ActionView, ActionAdd, ActionEdit, ActionDelete, ActionApprove:
		return true
	}
	return false
}

// SubjectKind distinguishes what a permission grant is attached to.
type SubjectKind string

const (
	SubjectRole  SubjectKind = "ROLE"
	SubjectGroup SubjectKind = "GROUP"
)

// Subject identifies the holder of a set of grants.
type Subject struct {
	Kind SubjectKind `json:"kind"`
	ID   int64       `json:"id"`
}

// RoleSubject is a convenience constructor.
func RoleSubject(id int64) Subject { return Subject{Kind: SubjectRole, ID: id} }

// GroupSubject is a convenience constructor.
func GroupSubject(id int64) Subject { return Subject{Kind: SubjectGroup, ID: id} }

// Role is a named permission holder assigned to users.
type Role struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Group collects users that share grants on top of their role.
type Group struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Module is one permission-bearing area of the application.
type Module struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// ============================================================================
// REQUEST / RESPONSE DTOS
// ============================================================================

type CreateRoleRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type SetPermissionsRequest struct {
	// Tokens are "module:action" pairs, e.g. "sales-orders:VIEW".
	Tokens []string `json:"tokens" validate:"required"`
}

// ModulePermissions summarises one subject's grants on one module.
type ModulePermissions struct {
	ModuleCode string   `json:"module_code"`
	ModuleName string   `json:"module_name"`
	Granted    []Action `json:"granted"`
	Count      int      `json:"count"`
}

// PermissionSummary is the full picture for one subject.
type PermissionSummary struct {
	Subject       Subject             `json:"subject"`
	Modules       []ModulePermissions `json:"modules"`
	GrantedTotal  int                 `json:"granted_total"`
	TotalPossible int                 `json:"total_possible"`
}
