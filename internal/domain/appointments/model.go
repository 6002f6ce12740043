package appointments

import "time"

// Status sigue el recorrido de la mascota en la peluquería.
// @Enum scheduled, confirmed, checked_in, in_service, ready, picked_up, canceled
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusInService Status = "in_service"
	StatusReady     Status = "ready"
	StatusPickedUp  Status = "picked_up"
	StatusCanceled  Status = "canceled"
)

// flowOrder ubica cada estado en el recorrido; canceled queda fuera.
var flowOrder = map[Status]int{
	StatusScheduled: 0,
	StatusConfirmed: 1,
	StatusCheckedIn: 2,
	StatusInService: 3,
	StatusReady:     4,
	StatusPickedUp:  5,
}

func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	if s == StatusCanceled {
		return s, true
	}
	_, ok := flowOrder[s]
	return s, ok
}

// Terminal indica que el turno ya no cambia de estado.
func (s Status) Terminal() bool {
	return s == StatusPickedUp || s == StatusCanceled
}

// CanMoveTo permite avanzar en el recorrido (saltando pasos) o cancelar.
func (s Status) CanMoveTo(next Status) bool {
	if s.Terminal() || s == next {
		return false
	}
	if next == StatusCanceled {
		return true
	}
	from, ok1 := flowOrder[s]
	to, ok2 := flowOrder[next]
	return ok1 && ok2 && to > from
}

// Appointment es un turno. No consume usos de paquetes: eso se registra aparte.
type Appointment struct {
	ID         string
	CompanyID  string
	CustomerID string
	PetID      string
	ServiceID  string

	ScheduledAt time.Time
	Status      Status
	Notes       string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
