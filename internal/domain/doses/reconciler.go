package doses

import (
	"time"

	"dailydose/internal/domain/medications"
)

// DueWindow es la ventana alrededor del horario en la que una toma sin log
// cuenta como DUE en vez de UPCOMING/MISSED. Constante de diseño: 30 minutos.
const DueWindow = 30 * time.Minute

// markOtherDaysMissed: toda toma sin log de un día distinto a hoy queda MISSED,
// incluso si la fecha consultada es futura. Es el comportamiento histórico de la
// vista de historial; si algún día se decide que futuro => UPCOMING, el cambio
// es esta constante.
const markOtherDaysMissed = true

// Reconcile cruza las tomas calculadas con los logs persistidos del mismo día
// y usuario, y asigna el estado final. El log manda: si existe un registro para
// (medicationID, scheduledTime), ese registro reemplaza entero a la toma
// calculada. Sin log, el estado sale de la hora de referencia.
func Reconcile(calculated, logged []Dose, now time.Time, isToday bool) []Dose {
	out := make([]Dose, 0, len(calculated))

	for _, c := range calculated {
		if entry, ok := findLog(logged, c.MedicationID, c.ScheduledTime); ok {
			out = append(out, entry)
			continue
		}

		c.Status = statusForUnlogged(c.DoseTime, now, isToday)
		out = append(out, c)
	}

	return out
}

// findLog busca el log que matchea por medicamento + horario "HH:mm" (match
// exacto de string, no ventana). Si hay duplicados (data sucia), gana el
// primero: elección arbitraria pero determinista.
func findLog(logged []Dose, medicationID, scheduledTime string) (Dose, bool) {
	for _, l := range logged {
		if l.MedicationID == medicationID && l.ScheduledTime == scheduledTime {
			return l, true
		}
	}
	return Dose{}, false
}

func statusForUnlogged(doseTime, now time.Time, isToday bool) Status {
	if isToday {
		delta := doseTime.Sub(now)
		switch {
		case delta > DueWindow:
			return StatusUpcoming
		case delta > -DueWindow:
			return StatusDue
		default:
			return StatusMissed
		}
	}

	if !markOtherDaysMissed && doseTime.After(now) {
		return StatusUpcoming
	}
	return StatusMissed
}

// Enrich une cada toma con los datos de presentación de su medicamento.
// Si el medicamento no aparece (no debería pasar, pero un dato inconsistente
// no puede tirar la lista entera) se rellena con placeholders.
func Enrich(items []Dose, meds []medications.Medication) []EnrichedDose {
	out := make([]EnrichedDose, 0, len(items))

	for _, d := range items {
		e := EnrichedDose{
			Dose:           d,
			MedicationName: "Unknown Medication",
		}

		for _, m := range meds {
			if m.ID != d.MedicationID {
				continue
			}
			e.MedicationName = m.Name
			e.MedicationStrength = m.Strength
			e.MedicationForm = string(m.Form)
			e.MedicationDosage = m.Dosage
			e.MealTiming = m.MealTiming
			break
		}

		out = append(out, e)
	}

	return out
}

// TakenLog arma el registro TAKEN listo para persistir a partir de una toma.
// Persistirlo es problema del repo; acá solo se construye el valor.
func TakenLog(d Dose, now time.Time) Dose {
	takenAt := now
	d.ID = ""
	d.Status = StatusTaken
	d.TakenAt = &takenAt
	d.CreatedAt = now
	d.UpdatedAt = now
	return d
}
