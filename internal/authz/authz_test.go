package authz

import (
	"errors"
	"testing"
)

func TestRequireAdmin(t *testing.T) {
	gate := NewGate([]string{"gabe@exposure.com.au"})

	if err := gate.RequireAdmin(&Identity{ID: "1", Email: "gabe@exposure.com.au"}); err != nil {
		t.Errorf("configured admin rejected: %v", err)
	}
	if err := gate.RequireAdmin(&Identity{ID: "1", Email: "GABE@Exposure.com.au"}); err != nil {
		t.Errorf("admin match should be case-insensitive: %v", err)
	}
	if err := gate.RequireAdmin(&Identity{ID: "2", Email: "cleo@exposure.com.au"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("creator on admin surface: got %v, want ErrForbidden", err)
	}
	if err := gate.RequireAdmin(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("nil identity: got %v, want ErrUnauthenticated", err)
	}
}

func TestRequireBriefAccess(t *testing.T) {
	gate := NewGate([]string{"gabe@exposure.com.au"})
	creator := "cleo@exposure.com.au"

	if err := gate.RequireBriefAccess(&Identity{ID: "2", Email: creator}, creator); err != nil {
		t.Errorf("assigned creator rejected: %v", err)
	}
	if err := gate.RequireBriefAccess(&Identity{ID: "1", Email: "gabe@exposure.com.au"}, creator); err != nil {
		t.Errorf("admin rejected: %v", err)
	}
	if err := gate.RequireBriefAccess(&Identity{ID: "3", Email: "z@other.com"}, creator); !errors.Is(err, ErrForbidden) {
		t.Errorf("unrelated identity: got %v, want ErrForbidden", err)
	}
	if err := gate.RequireBriefAccess(nil, creator); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("nil identity: got %v, want ErrUnauthenticated", err)
	}
}

func TestMultipleAdmins(t *testing.T) {
	gate := NewGate([]string{"gabe@exposure.com.au", "ops@exposure.com.au"})

	for _, email := range []string{"gabe@exposure.com.au", "ops@exposure.com.au"} {
		if !gate.IsAdmin(&Identity{ID: "x", Email: email}) {
			t.Errorf("IsAdmin(%q) = false, want true", email)
		}
	}
	if gate.IsAdmin(&Identity{ID: "y", Email: "chloe@exposure.com.au"}) {
		t.Error("IsAdmin returned true for a non-admin")
	}
}
