package model

// Status adalah status complaint.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusReopened   Status = "REOPENED"
)

// AllStatuses mengembalikan semua status dalam urutan lifecycle.
// Statistik dan validasi selalu iterasi lewat fungsi ini, jangan hardcode.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved, StatusReopened}
}

// ParseStatus mengembalikan false bila status tidak dikenal.
func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// workerTransitions adalah tabel transisi yang boleh dilakukan worker yang di-assign
// lewat UpdateStatus. PENDING -> IN_PROGRESS hanya lewat Accept,
// RESOLVED -> REOPENED hanya lewat Reopen oleh pemilik.
var workerTransitions = map[Status]map[Status]struct{}{
	StatusPending:    {},
	StatusInProgress: {StatusResolved: {}},
	StatusResolved:   {},
	StatusReopened:   {StatusInProgress: {}, StatusResolved: {}},
}

// CanTransition memeriksa tabel transisi UpdateStatus.
func CanTransition(from, to Status) bool {
	_, ok := workerTransitions[from][to]
	return ok
}

// AllowedTransitions mengembalikan status tujuan yang sah dari status from.
func AllowedTransitions(from Status) []Status {
	out := make([]Status, 0, len(workerTransitions[from]))
	for _, st := range AllStatuses() {
		if CanTransition(from, st) {
			out = append(out, st)
		}
	}
	return out
}

// CanBeAccepted: complaint hanya bisa di-accept jika belum ada worker yang di-assign.
func (c *Complaint) CanBeAccepted() bool {
	return c.AssignedToID == nil
}

// CanBeReopened: reopen hanya dari RESOLVED.
func (c *Complaint) CanBeReopened() bool {
	return c.Status == StatusResolved
}

// AcceptsFeedback: feedback pertama hanya boleh saat RESOLVED.
func (c *Complaint) AcceptsFeedback() bool {
	return c.Status == StatusResolved
}
