package doses

import (
	"sort"
	"time"

	"dailydose/internal/domain/medications"
)

// timeLayout es el formato de los horarios guardados en SpecificTimes.
const timeLayout = "15:04"

// CalculateDosesForDate expande los horarios de los medicamentos en las tomas
// esperadas para una fecha. Es una función pura: mismo input, mismo output,
// sin mirar el reloj. Los estados finales los asigna Reconcile.
//
// Reglas:
//   - solo medicamentos activos en la fecha (medications.ActiveOn)
//   - una Dose por entrada de SpecificTimes, con DoseTime = fecha + "HH:mm"
//     (segundos en cero) y status inicial UPCOMING
//   - un horario malformado se saltea solo ese; jamás se aborta el lote entero
//     (un medicamento roto no puede dejar el día del usuario en blanco)
//   - orden ascendente por DoseTime; los empates conservan el orden de entrada
func CalculateDosesForDate(meds []medications.Medication, userID string, date time.Time) []Dose {
	out := make([]Dose, 0)

	for _, m := range meds {
		if !medications.ActiveOn(m, date) {
			continue
		}

		for _, ts := range m.SpecificTimes {
			doseTime, err := doseTimeOn(date, ts)
			if err != nil {
				continue
			}

			out = append(out, Dose{
				MedicationID:  m.ID,
				UserID:        userID,
				DoseTime:      doseTime,
				ScheduledTime: ts,
				Status:        StatusUpcoming,
			})
		}
	}

	// SliceStable para que dos medicamentos con el mismo horario queden
	// siempre en el orden en que llegaron.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DoseTime.Before(out[j].DoseTime)
	})

	return out
}

// CalculateTodaysDoses es el atajo para la fecha de hoy.
func CalculateTodaysDoses(meds []medications.Medication, userID string) []Dose {
	return CalculateDosesForDate(meds, userID, time.Now())
}

// doseTimeOn combina el día de date con un horario "HH:mm".
func doseTimeOn(date time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return time.Time{}, err
	}

	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
