package role

import "sort"

// Capability is a single named permission evaluated from a Role.
type Capability string

const (
	// students
	CanViewStudents Capability = "canViewStudents"
	CanAddStudent   Capability = "canAddStudent"
	CanEditStudent  Capability = "canEditStudent"

	// teachers
	CanViewTeachers Capability = "canViewTeachers"
	CanAddTeacher   Capability = "canAddTeacher"
	CanEditTeacher  Capability = "canEditTeacher"

	// campuses
	CanViewCampuses Capability = "canViewCampuses"
	CanAddCampus    Capability = "canAddCampus"
	CanEditCampus   Capability = "canEditCampus"

	// coordinators
	CanViewCoordinators Capability = "canViewCoordinators"
	CanAddCoordinator   Capability = "canAddCoordinator"
	CanEditCoordinator  Capability = "canEditCoordinator"

	// grades & classrooms
	CanViewGrades     Capability = "canViewGrades"
	CanAddGrade       Capability = "canAddGrade"
	CanEditGrade      Capability = "canEditGrade"
	CanViewClassrooms Capability = "canViewClassrooms"
	CanAddClassroom   Capability = "canAddClassroom"
	CanEditClassroom  Capability = "canEditClassroom"

	// holidays
	CanViewHolidays   Capability = "canViewHolidays"
	CanManageHolidays Capability = "canManageHolidays"

	// attendance workflow
	CanSubmitAttendance   Capability = "canSubmitAttendance"
	CanReviewAttendance   Capability = "canReviewAttendance"
	CanFinalizeAttendance Capability = "canFinalizeAttendance"
	CanReopenAttendance   Capability = "canReopenAttendance"
)

// AllCapabilities is the fixed enumeration of action names.
var AllCapabilities = []Capability{
	CanViewStudents, CanAddStudent, CanEditStudent,
	CanViewTeachers, CanAddTeacher, CanEditTeacher,
	CanViewCampuses, CanAddCampus, CanEditCampus,
	CanViewCoordinators, CanAddCoordinator, CanEditCoordinator,
	CanViewGrades, CanAddGrade, CanEditGrade,
	CanViewClassrooms, CanAddClassroom, CanEditClassroom,
	CanViewHolidays, CanManageHolidays,
	CanSubmitAttendance, CanReviewAttendance, CanFinalizeAttendance, CanReopenAttendance,
}

// matrix is the authoritative Role -> Capability table. Every mutating entry
// point must consult it through CapabilitiesFor; role logic is never
// re-derived anywhere else.
var matrix = map[Role][]Capability{
	Teacher: {
		CanViewStudents,
		CanViewClassrooms,
		CanSubmitAttendance,
	},
	Coordinator: {
		CanViewStudents, CanAddStudent, CanEditStudent,
		CanViewTeachers, CanAddTeacher, CanEditTeacher,
		CanViewCampuses,
		CanViewCoordinators, CanAddCoordinator, CanEditCoordinator,
		CanViewGrades, CanAddGrade, CanEditGrade,
		CanViewClassrooms, CanAddClassroom, CanEditClassroom,
		CanViewHolidays,
		CanReviewAttendance, CanFinalizeAttendance, CanReopenAttendance,
	},
	Principal: {
		CanViewStudents, CanAddStudent, CanEditStudent,
		CanViewTeachers, CanAddTeacher, CanEditTeacher,
		CanViewCampuses, CanAddCampus, CanEditCampus,
		CanViewCoordinators, CanAddCoordinator, CanEditCoordinator,
		CanViewGrades, CanAddGrade, CanEditGrade,
		CanViewClassrooms, CanAddClassroom, CanEditClassroom,
		CanViewHolidays, CanManageHolidays,
	},
	SuperAdmin: {
		CanViewStudents,
		CanViewTeachers,
		CanViewCoordinators,
		CanAddCampus,
		CanViewHolidays, CanManageHolidays,
	},
	// Guest (and any unknown role) has no capabilities.
}

// CapabilitySet is an immutable set of enabled capabilities.
type CapabilitySet struct {
	caps map[Capability]bool
}

// Allows returns true when the capability is enabled in the set.
func (s CapabilitySet) Allows(c Capability) bool {
	return s.caps[c]
}

// List returns the enabled capabilities, sorted, as a fresh slice.
func (s CapabilitySet) List() []Capability {
	caps := make([]Capability, 0, len(s.caps))
	for c := range s.caps {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// CapabilitiesFor evaluates the capability set of a Role.
// It is a pure table lookup: the same Role always yields the same set,
// and any role absent from the table resolves to the all-false set.
func CapabilitiesFor(r Role) CapabilitySet {
	enabled := matrix[r]
	caps := make(map[Capability]bool, len(enabled))
	for _, c := range enabled {
		caps[c] = true
	}
	return CapabilitySet{caps: caps}
}
