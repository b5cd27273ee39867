package attendance

import "github.com/darasahq/darasa/core/role"

// transition describes one edge of the attendance workflow: the capability
// required to take it, the only status it may start from, and the status it
// moves the record to. The table is exhaustive: edges absent from it do not
// exist, so an illegal transition cannot be expressed at a call site.
type transition struct {
	capability role.Capability
	from       Status
	to         Status
}

// transitions is the complete workflow: the directed path
// draft -> submitted -> under_review -> final, plus the single back-edge
// final -> draft (reopen, which additionally requires a non-empty reason).
var transitions = map[Action]transition{
	ActionSubmit:   {capability: role.CanSubmitAttendance, from: StatusDraft, to: StatusSubmitted},
	ActionReview:   {capability: role.CanReviewAttendance, from: StatusSubmitted, to: StatusUnderReview},
	ActionFinalize: {capability: role.CanFinalizeAttendance, from: StatusUnderReview, to: StatusFinal},
	ActionReopen:   {capability: role.CanReopenAttendance, from: StatusFinal, to: StatusDraft},
}
