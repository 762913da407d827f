package access

import (
	"fmt"
	"sort"
	"strings"
)

// actionsPerModule is fixed: every module exposes the same five actions.
const actionsPerModule = 5

type grantKey struct {
	subject Subject
	module  string
	action  Action
}

// Matrix answers (subject, module, action) permission lookups over a fixed
// set of modules. It is a plain in-memory structure, persistence lives in
// the repository.
type Matrix struct {
	modules map[string]struct{}
	order   []string
	grants  map[grantKey]struct{}
}

// NewMatrix builds an empty matrix over the given module codes. Duplicate
// codes collapse.
func NewMatrix(moduleCodes []string) *Matrix {
	m := &Matrix{
		modules: make(map[string]struct{}, len(moduleCodes)),
		grants:  make(map[grantKey]struct{}),
	}
	for _, code := range moduleCodes {
		if _, seen := m.modules[code]; seen {
			continue
		}
		m.modules[code] = struct{}{}
		m.order = append(m.order, code)
	}
	return m
}

// Modules returns the module codes in registration order.
func (m *Matrix) Modules() []string {
	return append([]string(nil), m.order...)
}

// Grant records one permission. Unknown modules and actions are rejected.
func (m *Matrix) Grant(sub Subject, module string, action Action) error {
	if _, ok := m.modules[module]; !ok {
		return fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}
	if !action.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}
	m.grants[grantKey{sub, module, action}] = struct{}{}
	return nil
}

// Revoke removes one permission. Revoking an absent grant is a no-op.
func (m *Matrix) Revoke(sub Subject, module string, action Action) {
	delete(m.grants, grantKey{sub, module, action})
}

// IsGranted reports whether the subject holds the permission. Unknown
// modules and actions simply read as not granted.
func (m *Matrix) IsGranted(sub Subject, module string, action Action) bool {
	_, ok := m.grants[grantKey{sub, module, action}]
	return ok
}

// CountGranted returns how many of the five actions the subject holds on
// one module, 0 through 5.
func (m *Matrix) CountGranted(sub Subject, module string) int {
	count := 0
	for _, action := range Actions() {
		if m.IsGranted(sub, module, action) {
			count++
		}
	}
	return count
}

// GrantedTotal returns the subject's grant count across all modules.
func (m *Matrix) GrantedTotal(sub Subject) int {
	total := 0
	for _, module := range m.order {
		total += m.CountGranted(sub, module)
	}
	return total
}

// TotalPossible returns the matrix ceiling: modules times five actions.
func (m *Matrix) TotalPossible() int {
	return len(m.modules) * actionsPerModule
}

// Granted lists the subject's actions on one module in the fixed order.
func (m *Matrix) Granted(sub Subject, module string) []Action {
	var granted []Action
	for _, action := range Actions() {
		if m.IsGranted(sub, module, action) {
			granted = append(granted, action)
		}
	}
	return granted
}

// Tokens flattens the subject's grants to sorted "module:action" tokens.
func (m *Matrix) Tokens(sub Subject) []string {
	var tokens []string
	for _, module := range m.order {
		for _, action := range m.Granted(sub, module) {
			tokens = append(tokens, EncodeToken(module, action))
		}
	}
	sort.Strings(tokens)
	return tokens
}

// EncodeToken renders one grant as a "module:action" token.
func EncodeToken(module string, action Action) string {
	return module + ":" + string(action)
}

// ParseToken splits a "module:action" token. The action part must be one
// of the five known actions.
func ParseToken(token string) (module string, action Action, err error) {
	idx := strings.LastIndex(token, ":")
	if idx <= 0 || idx == len(token)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	module, action = token[:idx], Action(token[idx+1:])
	if !action.IsValid() {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	return module, action, nil
}
