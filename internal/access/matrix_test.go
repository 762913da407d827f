package access

import (
	"errors"
	"testing"
)

func testMatrix() *Matrix {
	return NewMatrix([]string{"sales-orders", "purchase-orders", "invoices"})
}

func TestGrantAndIsGranted(t *testing.T) {
	m := testMatrix()
	sub := RoleSubject(1)

	if m.IsGranted(sub, "sales-orders", ActionView) {
		t.Fatal("fresh matrix should hold no grants")
	}
	if err := m.Grant(sub, "sales-orders", ActionView); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsGranted(sub, "sales-orders", ActionView) {
		t.Fatal("grant not visible")
	}
	if m.IsGranted(sub, "sales-orders", ActionDelete) {
		t.Fatal("ungranted action reads as granted")
	}
	if m.IsGranted(RoleSubject(2), "sales-orders", ActionView) {
		t.Fatal("grant leaked to another subject")
	}
}

func TestRoleAndGroupSubjectsAreDistinct(t *testing.T) {
	m := testMatrix()
	if err := m.Grant(RoleSubject(1), "invoices", ActionApprove); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.IsGranted(GroupSubject(1), "invoices", ActionApprove) {
		t.Fatal("role grant visible through group subject of same id")
	}
}

func TestGrantRejectsUnknownModuleAndAction(t *testing.T) {
	m := testMatrix()
	if err := m.Grant(RoleSubject(1), "nonexistent", ActionView); !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
	if err := m.Grant(RoleSubject(1), "invoices", Action("EXPORT")); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	m := testMatrix()
	sub := RoleSubject(1)
	if err := m.Grant(sub, "invoices", ActionEdit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Revoke(sub, "invoices", ActionEdit)
	if m.IsGranted(sub, "invoices", ActionEdit) {
		t.Fatal("revoked grant still visible")
	}
	// Revoking again must not panic.
	m.Revoke(sub, "invoices", ActionEdit)
}

func TestCountGrantedBounds(t *testing.T) {
	m := testMatrix()
	sub := RoleSubject(1)

	if got := m.CountGranted(sub, "invoices"); got != 0 {
		t.Fatalf("empty count %d, want 0", got)
	}
	for _, action := range Actions() {
		if err := m.Grant(sub, "invoices", action); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := m.CountGranted(sub, "invoices"); got != 5 {
		t.Fatalf("full count %d, want 5", got)
	}
	// Granting twice must not push the count past 5.
	if err := m.Grant(sub, "invoices", ActionView); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.CountGranted(sub, "invoices"); got != 5 {
		t.Fatalf("count after duplicate grant %d, want 5", got)
	}
}

func TestTotalPossible(t *testing.T) {
	if got := testMatrix().TotalPossible(); got != 15 {
		t.Fatalf("total possible %d, want 15", got)
	}
	if got := NewMatrix(nil).TotalPossible(); got != 0 {
		t.Fatalf("empty matrix total %d, want 0", got)
	}
	// Duplicate module codes collapse.
	if got := NewMatrix([]string{"a", "a", "b"}).TotalPossible(); got != 10 {
		t.Fatalf("deduplicated total %d, want 10", got)
	}
}

func TestGrantedTotal(t *testing.T) {
	m := testMatrix()
	sub := GroupSubject(3)
	_ = m.Grant(sub, "sales-orders", ActionView)
	_ = m.Grant(sub, "sales-orders", ActionAdd)
	_ = m.Grant(sub, "invoices", ActionView)

	if got := m.GrantedTotal(sub); got != 3 {
		t.Fatalf("granted total %d, want 3", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	module, action, err := ParseToken("sales-orders:APPROVE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if module != "sales-orders" || action != ActionApprove {
		t.Fatalf("parsed %s %s", module, action)
	}
	if got := EncodeToken(module, action); got != "sales-orders:APPROVE" {
		t.Fatalf("encoded %q", got)
	}
}

func TestParseTokenRejectsMalformed(t *testing.T) {
	for _, token := range []string{"", "sales-orders", ":VIEW", "sales-orders:", "sales-orders:EXPORT"} {
		if _, _, err := ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestTokensAreSortedAndComplete(t *testing.T) {
	m := testMatrix()
	sub := RoleSubject(1)
	_ = m.Grant(sub, "invoices", ActionView)
	_ = m.Grant(sub, "sales-orders", ActionApprove)

	tokens := m.Tokens(sub)
	if len(tokens) != 2 {
		t.Fatalf("tokens %v, want 2 entries", tokens)
	}
	if tokens[0] != "invoices:VIEW" || tokens[1] != "sales-orders:APPROVE" {
		t.Fatalf("tokens %v not sorted", tokens)
	}
}
