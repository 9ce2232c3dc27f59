package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"manager", RoleManager, false},
		{"user", RoleMember, false},
		{"member", RoleMember, false},
		{"add", RoleAddOnly, false},
		{"receive", RoleReceiveOnly, false},
		{"Admin", "", true},
		{"", "", true},
		{"superuser", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRolePartition(t *testing.T) {
	for _, r := range allRoles {
		excludedAssign := contains(AssignerExclusions, string(r))
		if excludedAssign == r.CanAssign() {
			t.Errorf("%s: CanAssign = %v disagrees with AssignerExclusions", r, r.CanAssign())
		}
		excludedReceive := contains(ReceiverExclusions, string(r))
		if excludedReceive == r.CanReceive() {
			t.Errorf("%s: CanReceive = %v disagrees with ReceiverExclusions", r, r.CanReceive())
		}
	}
	if RoleAdmin.CanAssign() || RoleAdmin.CanReceive() {
		t.Error("admin must be excluded from both listings")
	}
	if got := AssignerExclusions; len(got) != 2 || got[0] != "admin" || got[1] != "receive" {
		t.Errorf("AssignerExclusions = %v", got)
	}
	if got := ReceiverExclusions; len(got) != 2 || got[0] != "admin" || got[1] != "add" {
		t.Errorf("ReceiverExclusions = %v", got)
	}
}

func TestIsAdmin(t *testing.T) {
	for _, r := range allRoles {
		if r.IsAdmin() != (r == RoleAdmin) {
			t.Errorf("%s.IsAdmin() = %v", r, r.IsAdmin())
		}
	}
	if Role("Admin").IsAdmin() {
		t.Error("role match must be exact")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
