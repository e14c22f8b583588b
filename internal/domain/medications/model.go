package medications

import "time"

// Medication representa la configuración de un medicamento del usuario:
// datos de presentación + ventana de fechas + horarios de toma.
type Medication struct {
	ID     string
	UserID string

	Name     string
	Form     Form
	Strength string
	Dosage   string

	StartDate time.Time
	EndDate   *time.Time
	IsOngoing bool // si es true, EndDate se ignora aunque venga seteado

	TimesPerDay   int
	SpecificTimes []string // horarios "HH:mm" en orden, ej: ["08:00", "20:00"]

	MealTiming       *MealTiming
	RemindersEnabled bool
	ReminderType     ReminderType

	PrescribedBy string
	Notes        string
	RefillCount  *int
	Category     *Category

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveOn decide si el medicamento está activo en la fecha dada (truncada a día).
// Es el único lugar donde vive esta regla: la usan el calculador de dosis,
// el filtro por fecha del service y el scheduler de recordatorios.
func ActiveOn(m Medication, date time.Time) bool {
	if !m.IsActive {
		return false
	}

	d := dayOf(date)
	if d.Before(dayOf(m.StartDate)) {
		return false
	}

	// Ongoing (o sin fecha fin) => activo indefinidamente desde StartDate.
	if m.IsOngoing || m.EndDate == nil {
		return true
	}
	return !d.After(dayOf(*m.EndDate))
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
