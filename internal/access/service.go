package access

import (
	"context"
	"fmt"
	"strings"
)

// Repository defines data access methods for roles, groups, modules and
// permission grants.
type Repository interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (*Role, error)
	CreateRole(ctx context.Context, role Role) (int64, error)
	UpdateRole(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteRole(ctx context.Context, id int64) error

	ListGroups(ctx context.Context) ([]Group, error)
	GetGroup(ctx context.Context, id int64) (*Group, error)
	CreateGroup(ctx context.Context, group Group) (int64, error)
	UpdateGroup(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteGroup(ctx context.Context, id int64) error

	ListModules(ctx context.Context) ([]Module, error)

	// Grants are stored and exchanged as "module:action" tokens.
	ListGrants(ctx context.Context, sub Subject) ([]string, error)
	ReplaceGrants(ctx context.Context, sub Subject, tokens []string) error
}

// Service provides business logic for access control administration.
type Service struct {
	repo Repository
}

// NewService creates a new service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ============================================================================
// ROLES
// ============================================================================

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	return s.repo.GetRole(ctx, id)
}

func (s *Service) CreateRole(ctx context.Context, req CreateRoleRequest) (*Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	id, err := s.repo.CreateRole(ctx, Role{Name: name, Description: req.Description, IsActive: true})
	if err != nil {
		return nil, err
	}
	return s.repo.GetRole(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, id int64, req UpdateRoleRequest) (*Role, error) {
	if _, err := s.repo.GetRole(ctx, id); err != nil {
		return nil, err
	}
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateRole(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetRole(ctx, id)
}

func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// ============================================================================
// GROUPS
// ============================================================================

func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) GetGroup(ctx context.Context, id int64) (*Group, error) {
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	id, err := s.repo.CreateGroup(ctx, Group{Name: name, Description: req.Description, IsActive: true})
	if err != nil {
		return nil, err
	}
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) UpdateGroup(ctx context.Context, id int64, req UpdateGroupRequest) (*Group, error) {
	if _, err := s.repo.GetGroup(ctx, id); err != nil {
		return nil, err
	}
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateGroup(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) DeleteGroup(ctx context.Context, id int64) error {
	return s.repo.DeleteGroup(ctx, id)
}

// ============================================================================
// MODULES AND PERMISSIONS
// ============================================================================

func (s *Service) ListModules(ctx context.Context) ([]Module, error) {
	return s.repo.ListModules(ctx)
}

func (s *Service) verifySubject(ctx context.Context, sub Subject) error {
	switch sub.Kind {
	case SubjectRole:
		_, err := s.repo.GetRole(ctx, sub.ID)
		return err
	case SubjectGroup:
		_, err := s.repo.GetGroup(ctx, sub.ID)
		return err
	default:
		return fmt.Errorf("%w: unknown subject kind %q", ErrInvalidToken, sub.Kind)
	}
}

// loadMatrix builds a matrix over the stored modules with the subject's
// stored grants applied.
func (s *Service) loadMatrix(ctx context.Context, sub Subject) (*Matrix, []Module, error) {
	modules, err := s.repo.ListModules(ctx)
	if err != nil {
		return nil, nil, err
	}
	codes := make([]string, len(modules))
	for i, mod := range modules {
		codes[i] = mod.Code
	}
	matrix := NewMatrix(codes)

	tokens, err := s.repo.ListGrants(ctx, sub)
	if err != nil {
		return nil, nil, err
	}
	for _, token := range tokens {
		module, action, err := ParseToken(token)
		if err != nil {
			return nil, nil, err
		}
		if err := matrix.Grant(sub, module, action); err != nil {
			return nil, nil, err
		}
	}
	return matrix, modules, nil
}

// GetPermissions reports the subject's grants per module along with the
// counts the permission screens display.
func (s *Service) GetPermissions(ctx context.Context, sub Subject) (*PermissionSummary, error) {
	if err := s.verifySubject(ctx, sub); err != nil {
		return nil, err
	}
	matrix, modules, err := s.loadMatrix(ctx, sub)
	if err != nil {
		return nil, err
	}

	summary := &PermissionSummary{
		Subject:       sub,
		TotalPossible: matrix.TotalPossible(),
	}
	for _, mod := range modules {
		granted := matrix.Granted(sub, mod.Code)
		summary.Modules = append(summary.Modules, ModulePermissions{
			ModuleCode: mod.Code,
			ModuleName: mod.Name,
			Granted:    granted,
			Count:      len(granted),
		})
		summary.GrantedTotal += len(granted)
	}
	return summary, nil
}

// SetPermissions replaces the subject's grants with the given tokens.
func (s *Service) SetPermissions(ctx context.Context, sub Subject, tokens []string) (*PermissionSummary, error) {
	if err := s.verifySubject(ctx, sub); err != nil {
		return nil, err
	}
	modules, err := s.repo.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, len(modules))
	for i, mod := range modules {
		codes[i] = mod.Code
	}
	matrix := NewMatrix(codes)
	for _, token := range tokens {
		module, action, err := ParseToken(token)
		if err != nil {
			return nil, err
		}
		if err := matrix.Grant(sub, module, action); err != nil {
			return nil, err
		}
	}

	if err := s.repo.ReplaceGrants(ctx, sub, matrix.Tokens(sub)); err != nil {
		return nil, err
	}
	return s.GetPermissions(ctx, sub)
}
