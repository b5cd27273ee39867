package user

import (
	"testing"

	"github.com/darasahq/darasa/core/role"
)

func TestUser_password(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cr3t!"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if err := usr.CheckPassword("s3cr3t!"); err != nil {
		t.Errorf("CheckPassword() rejected the right password: %v", err)
	}
	if err := usr.CheckPassword("nope"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestUser_Role(t *testing.T) {
	tests := []struct {
		rawRole string
		want    role.Role
	}{
		{"teacher", role.Teacher},
		{"Head Teacher", role.Teacher},
		{"Campus Coordinator", role.Coordinator},
		{"principal", role.Principal},
		{"", role.Guest},
	}
	for _, tt := range tests {
		usr := User{RawRole: tt.rawRole}
		if got := usr.Role(); got != tt.want {
			t.Errorf("User{RawRole: %q}.Role() = %v; want %v", tt.rawRole, got, tt.want)
		}
	}
}
