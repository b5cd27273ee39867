package role

import "testing"

func TestFromString(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"teacher", Teacher},
		{"Teacher", Teacher},
		{" head TEACHER ", Teacher},
		{"coordinator", Coordinator},
		{"Campus Coordinator", Coordinator},
		{"coordination office", Coordinator},
		{"principal", Principal},
		{"Vice Principal", Principal},
		{"superadmin", SuperAdmin},
		{"System Administrator", SuperAdmin},
		{"", Guest},
		{"   ", Guest},
		{"librarian", Role("librarian")}, // unmatched: lowercase literal
		{"LIBRARIAN", Role("librarian")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := FromString(tt.raw); got != tt.want {
				t.Errorf("FromString(%q) = %v; want %v", tt.raw, got, tt.want)
			}
			// total and deterministic
			if got := FromString(tt.raw); got != tt.want {
				t.Errorf("FromString(%q) second call = %v; want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRole_Known(t *testing.T) {
	for _, r := range []Role{Teacher, Coordinator, Principal, SuperAdmin, Guest} {
		if !r.Known() {
			t.Errorf("%v.Known() = false; want true", r)
		}
	}
	if Role("librarian").Known() {
		t.Error(`Role("librarian").Known() = true; want false`)
	}
}

func TestRole_Name(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{Teacher, "Teacher"},
		{Coordinator, "Coordinator"},
		{Principal, "Principal"},
		{SuperAdmin, "Super Admin"},
		{Guest, "Guest"},
	}
	for _, tt := range tests {
		if got := tt.role.Name(); got != tt.want {
			t.Errorf("%v.Name() = %q; want %q", tt.role, got, tt.want)
		}
	}
}
