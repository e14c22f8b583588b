package doses

import (
	"testing"
	"time"

	"dailydose/internal/domain/medications"
)

func calcDose(medID, hhmm string, doseTime time.Time) Dose {
	return Dose{
		MedicationID:  medID,
		UserID:        "user-1",
		DoseTime:      doseTime,
		ScheduledTime: hhmm,
		Status:        StatusUpcoming,
	}
}

func TestReconcile_LogReplacesCalculated(t *testing.T) {
	doseTime := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	takenAt := doseTime.Add(3 * time.Minute)

	calculated := []Dose{calcDose("med-1", "08:00", doseTime)}
	logged := []Dose{{
		ID:            "log-1",
		MedicationID:  "med-1",
		UserID:        "user-1",
		DoseTime:      doseTime,
		ScheduledTime: "08:00",
		Status:        StatusTaken,
		TakenAt:       &takenAt,
		Notes:         "con desayuno",
	}}

	now := doseTime.Add(2 * time.Hour)
	out := Reconcile(calculated, logged, now, true)

	if len(out) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(out))
	}
	// El log reemplaza entero a la calculada, no solo el status.
	if out[0].ID != "log-1" || out[0].Status != StatusTaken {
		t.Fatalf("expected the log entry verbatim, got %#v", out[0])
	}
	if out[0].Notes != "con desayuno" || out[0].TakenAt == nil {
		t.Fatalf("expected log fields preserved, got %#v", out[0])
	}
}

func TestReconcile_DuplicateLogs_FirstWins(t *testing.T) {
	doseTime := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	calculated := []Dose{calcDose("med-1", "08:00", doseTime)}

	logged := []Dose{
		{ID: "log-a", MedicationID: "med-1", ScheduledTime: "08:00", Status: StatusTaken},
		{ID: "log-b", MedicationID: "med-1", ScheduledTime: "08:00", Status: StatusSkipped},
	}

	out := Reconcile(calculated, logged, doseTime, true)
	if out[0].ID != "log-a" {
		t.Fatalf("expected first matching log to win, got %s", out[0].ID)
	}

	// Mismo input => mismo ganador.
	out2 := Reconcile(calculated, logged, doseTime, true)
	if out2[0].ID != "log-a" {
		t.Fatalf("expected deterministic winner, got %s", out2[0].ID)
	}
}

func TestReconcile_MatchIsExactString(t *testing.T) {
	doseTime := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	calculated := []Dose{calcDose("med-1", "08:00", doseTime)}

	// "8:00" != "08:00": sin normalización, no matchea.
	logged := []Dose{{ID: "log-1", MedicationID: "med-1", ScheduledTime: "8:00", Status: StatusTaken}}

	now := doseTime.Add(5 * time.Hour)
	out := Reconcile(calculated, logged, now, true)
	if out[0].Status != StatusMissed {
		t.Fatalf("expected no match and MISSED, got %s", out[0].Status)
	}
}

func TestReconcile_TodayWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		doseTime time.Time
		want     Status
	}{
		{"mucho antes", now.Add(-2 * time.Hour), StatusMissed},
		{"justo -30m", now.Add(-DueWindow), StatusMissed},
		{"dentro por abajo", now.Add(-DueWindow + time.Millisecond), StatusDue},
		{"ahora exacto", now, StatusDue},
		{"justo +30m", now.Add(DueWindow), StatusDue},
		{"apenas afuera", now.Add(DueWindow + time.Millisecond), StatusUpcoming},
		{"mucho despues", now.Add(3 * time.Hour), StatusUpcoming},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Reconcile([]Dose{calcDose("med-1", "12:00", tc.doseTime)}, nil, now, true)
			if out[0].Status != tc.want {
				t.Fatalf("doseTime=%v: expected %s, got %s", tc.doseTime, tc.want, out[0].Status)
			}
		})
	}
}

func TestReconcile_OtherDaysUnloggedAreMissed(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	past := time.Date(2026, 3, 8, 8, 0, 0, 0, time.UTC)
	future := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	out := Reconcile([]Dose{
		calcDose("med-1", "08:00", past),
		calcDose("med-1", "08:00", future),
	}, nil, now, false)

	for i, d := range out {
		if d.Status != StatusMissed {
			t.Fatalf("dose %d: expected MISSED for non-today unlogged dose, got %s", i, d.Status)
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	calculated := []Dose{
		calcDose("med-1", "08:00", time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)),
		calcDose("med-1", "12:10", time.Date(2026, 3, 10, 12, 10, 0, 0, time.UTC)),
	}
	logged := []Dose{{ID: "log-1", MedicationID: "med-1", ScheduledTime: "08:00", Status: StatusTaken}}

	once := Reconcile(calculated, logged, now, true)
	twice := Reconcile(once, logged, now, true)

	if len(once) != len(twice) {
		t.Fatalf("expected same length, got %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("dose %d changed on re-reconcile: %#v vs %#v", i, once[i], twice[i])
		}
	}
}

func TestEnrich_FillsMedicationData_WithPlaceholderFallback(t *testing.T) {
	meal := medications.MealWith
	med := medications.Medication{
		ID:         "med-1",
		Name:       "Metformina",
		Form:       medications.FormTablet,
		Strength:   "500mg",
		Dosage:     "1 tableta",
		MealTiming: &meal,
	}

	items := []Dose{
		{MedicationID: "med-1", ScheduledTime: "08:00"},
		{MedicationID: "med-desconocido", ScheduledTime: "09:00"},
	}

	out := Enrich(items, []medications.Medication{med})

	if out[0].MedicationName != "Metformina" || out[0].MedicationStrength != "500mg" {
		t.Fatalf("expected medication data, got %#v", out[0])
	}
	if out[0].MedicationForm != "TABLET" || out[0].MealTiming == nil {
		t.Fatalf("expected form/meal timing, got %#v", out[0])
	}
	if out[1].MedicationName != "Unknown Medication" {
		t.Fatalf("expected placeholder name, got %q", out[1].MedicationName)
	}
}

func TestTakenLog_BuildsPersistableEntry(t *testing.T) {
	doseTime := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	now := doseTime.Add(4 * time.Minute)

	entry := TakenLog(Dose{
		ID:            "calc-no-id",
		MedicationID:  "med-1",
		UserID:        "user-1",
		DoseTime:      doseTime,
		ScheduledTime: "08:00",
		Status:        StatusDue,
	}, now)

	if entry.ID != "" {
		t.Fatalf("expected ID cleared (lo asigna el service), got %q", entry.ID)
	}
	if entry.Status != StatusTaken {
		t.Fatalf("expected TAKEN, got %s", entry.Status)
	}
	if entry.TakenAt == nil || !entry.TakenAt.Equal(now) {
		t.Fatalf("expected TakenAt=now, got %v", entry.TakenAt)
	}
	if !entry.CreatedAt.Equal(now) || !entry.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps=now")
	}
}
