package entity

import "time"

// Overlaps reports whether [s1,e1) and [s2,e2) intersect.
// Touching intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// BlocksCalendar reports whether the appointment occupies its slot.
// Cancelled and no-show appointments free the slot.
func (a *Appointment) BlocksCalendar() bool {
	return a.Active && a.Status != AppointmentStatusCancelled && a.Status != AppointmentStatusNoShow
}

// ConflictsWith applies the scheduling conflict rule between a candidate and an existing appointment.
func (a *Appointment) ConflictsWith(other *Appointment) bool {
	if other.ID == a.ID || other.DentistID != a.DentistID {
		return false
	}
	if !other.BlocksCalendar() {
		return false
	}
	return Overlaps(a.StartTime, a.EndTime, other.StartTime, other.EndTime)
}

// FindConflict returns the first existing appointment that blocks the candidate, or nil.
func FindConflict(candidate *Appointment, existing []Appointment) *Appointment {
	for i := range existing {
		if candidate.ConflictsWith(&existing[i]) {
			return &existing[i]
		}
	}
	return nil
}
