package doses

import (
	"time"

	"dailydose/internal/domain/medications"
)

// Dose representa una toma concreta de un medicamento en un día.
// El mismo shape sirve para los dos orígenes:
//   - calculada: derivada del horario del medicamento, ID vacío, nunca se persiste
//   - log: registro real en dose_logs (ID seteado), es la fuente de verdad
type Dose struct {
	ID           string // vacío para dosis calculadas
	MedicationID string
	UserID       string

	DoseTime      time.Time
	ScheduledTime string // "HH:mm" original del horario; clave de match contra el log

	Status Status

	TakenAt *time.Time
	Notes   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnrichedDose es una Dose + datos de presentación del medicamento,
// lista para mostrar. Solo se arma en respuesta a una consulta.
type EnrichedDose struct {
	Dose

	MedicationName     string
	MedicationStrength string
	MedicationForm     string
	MedicationDosage   string
	MealTiming         *medications.MealTiming
}
