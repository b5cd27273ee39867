package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesFor(t *testing.T) {
	tests := []struct {
		role    Role
		allowed []Capability
		denied  []Capability
	}{
		{
			role:    Teacher,
			allowed: []Capability{CanViewStudents, CanViewClassrooms, CanSubmitAttendance},
			denied: []Capability{
				CanAddStudent, CanEditStudent, CanViewTeachers, CanViewHolidays,
				CanReviewAttendance, CanFinalizeAttendance, CanReopenAttendance,
			},
		},
		{
			role: Coordinator,
			allowed: []Capability{
				CanAddStudent, CanEditTeacher, CanAddCoordinator, CanAddGrade,
				CanEditClassroom, CanViewCampuses, CanViewHolidays,
				CanReviewAttendance, CanFinalizeAttendance, CanReopenAttendance,
			},
			denied: []Capability{CanAddCampus, CanEditCampus, CanManageHolidays, CanSubmitAttendance},
		},
		{
			role: Principal,
			allowed: []Capability{
				CanAddStudent, CanAddTeacher, CanAddCampus, CanEditCampus,
				CanAddCoordinator, CanAddGrade, CanAddClassroom, CanManageHolidays,
			},
			denied: []Capability{CanSubmitAttendance, CanReviewAttendance, CanFinalizeAttendance, CanReopenAttendance},
		},
		{
			role:    SuperAdmin,
			allowed: []Capability{CanViewStudents, CanViewTeachers, CanViewCoordinators, CanAddCampus, CanManageHolidays},
			denied:  []Capability{CanAddStudent, CanEditCampus, CanSubmitAttendance, CanReviewAttendance},
		},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			set := CapabilitiesFor(tt.role)
			for _, c := range tt.allowed {
				if !set.Allows(c) {
					t.Errorf("%v.Allows(%v) = false; want true", tt.role, c)
				}
			}
			for _, c := range tt.denied {
				if set.Allows(c) {
					t.Errorf("%v.Allows(%v) = true; want false", tt.role, c)
				}
			}
		})
	}
}

func TestCapabilitiesFor_defaultDeny(t *testing.T) {
	// guest and any unknown role resolve to the empty set
	for _, r := range []Role{Guest, Role("librarian"), Role("")} {
		set := CapabilitiesFor(r)
		for _, c := range AllCapabilities {
			if set.Allows(c) {
				t.Errorf("%q.Allows(%v) = true; want false", r, c)
			}
		}
		assert.Empty(t, set.List())
	}
}

func TestCapabilitiesFor_deterministic(t *testing.T) {
	for r := range matrix {
		first := CapabilitiesFor(r).List()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, CapabilitiesFor(r).List())
		}
	}
}

func TestCapabilitySet_List(t *testing.T) {
	set := CapabilitiesFor(Teacher)
	list := set.List()
	assert.ElementsMatch(t, []Capability{CanViewStudents, CanViewClassrooms, CanSubmitAttendance}, list)

	// List returns a copy; mutating it does not affect the set
	list[0] = CanManageHolidays
	if set.Allows(CanManageHolidays) {
		t.Error("mutating List() result leaked into the set")
	}
}
