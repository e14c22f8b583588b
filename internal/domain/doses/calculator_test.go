package doses

import (
	"testing"
	"time"

	"dailydose/internal/domain/medications"
)

func testMed(id, name string, times []string) medications.Medication {
	return medications.Medication{
		ID:            id,
		UserID:        "user-1",
		Name:          name,
		Form:          medications.FormTablet,
		StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsOngoing:     true,
		TimesPerDay:   len(times),
		SpecificTimes: times,
		IsActive:      true,
	}
}

func TestCalculate_OneDosePerTime_InitialUpcoming(t *testing.T) {
	meds := []medications.Medication{
		testMed("med-1", "Metformina", []string{"08:00", "14:00", "20:00"}),
	}
	date := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	out := CalculateDosesForDate(meds, "user-1", date)

	if len(out) != 3 {
		t.Fatalf("expected 3 doses, got %d", len(out))
	}
	for i, d := range out {
		if d.Status != StatusUpcoming {
			t.Fatalf("dose %d: expected UPCOMING, got %s", i, d.Status)
		}
		if d.ID != "" {
			t.Fatalf("dose %d: calculated dose must not carry an ID", i)
		}
		if d.DoseTime.Second() != 0 || d.DoseTime.Nanosecond() != 0 {
			t.Fatalf("dose %d: expected seconds zeroed, got %v", i, d.DoseTime)
		}
	}

	// DoseTime = día consultado + horario
	want := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if !out[0].DoseTime.Equal(want) {
		t.Fatalf("expected first dose at %v, got %v", want, out[0].DoseTime)
	}
	if out[0].ScheduledTime != "08:00" {
		t.Fatalf("expected scheduled_time 08:00, got %s", out[0].ScheduledTime)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	meds := []medications.Medication{
		testMed("med-1", "A", []string{"20:00", "08:00"}),
		testMed("med-2", "B", []string{"12:00"}),
	}
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	a := CalculateDosesForDate(meds, "user-1", date)
	b := CalculateDosesForDate(meds, "user-1", date)

	if len(a) != len(b) {
		t.Fatalf("expected same length, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("dose %d differs between runs: %#v vs %#v", i, a[i], b[i])
		}
	}
}

func TestCalculate_SortedByTime_TiesKeepInputOrder(t *testing.T) {
	// Dos medicamentos comparten el horario 09:00: el empate conserva el
	// orden de entrada de la lista de medicamentos.
	meds := []medications.Medication{
		testMed("med-1", "A", []string{"09:00", "21:00"}),
		testMed("med-2", "B", []string{"09:00"}),
	}
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	out := CalculateDosesForDate(meds, "user-1", date)

	if len(out) != 3 {
		t.Fatalf("expected 3 doses, got %d", len(out))
	}
	if out[0].MedicationID != "med-1" || out[1].MedicationID != "med-2" {
		t.Fatalf("expected stable tie order med-1, med-2; got %s, %s",
			out[0].MedicationID, out[1].MedicationID)
	}
	if out[2].ScheduledTime != "21:00" {
		t.Fatalf("expected last dose 21:00, got %s", out[2].ScheduledTime)
	}
}

func TestCalculate_SkipsInactiveAndOutOfWindow(t *testing.T) {
	end := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	inactive := testMed("med-1", "Inactivo", []string{"08:00"})
	inactive.IsActive = false

	notStarted := testMed("med-2", "Futuro", []string{"08:00"})
	notStarted.StartDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	ended := testMed("med-3", "Terminado", []string{"08:00"})
	ended.IsOngoing = false
	ended.EndDate = &end

	// Ongoing ignora EndDate aunque venga seteado.
	ongoing := testMed("med-4", "Cronico", []string{"08:00"})
	ongoing.IsOngoing = true
	ongoing.EndDate = &end

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	out := CalculateDosesForDate([]medications.Medication{inactive, notStarted, ended, ongoing}, "user-1", date)

	if len(out) != 1 {
		t.Fatalf("expected only the ongoing medication, got %d doses", len(out))
	}
	if out[0].MedicationID != "med-4" {
		t.Fatalf("expected med-4, got %s", out[0].MedicationID)
	}
}

func TestCalculate_MalformedTimeSkipsOnlyThatEntry(t *testing.T) {
	meds := []medications.Medication{
		testMed("med-1", "A", []string{"08:00", "8h00", "20:00"}),
		testMed("med-2", "B", []string{"12:00"}),
	}
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	out := CalculateDosesForDate(meds, "user-1", date)

	if len(out) != 3 {
		t.Fatalf("expected 3 doses (broken slot skipped), got %d", len(out))
	}
	for _, d := range out {
		if d.ScheduledTime == "8h00" {
			t.Fatalf("malformed time must not produce a dose")
		}
	}
}

func TestCalculate_EmptyMedications(t *testing.T) {
	out := CalculateDosesForDate(nil, "user-1", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if out == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(out) != 0 {
		t.Fatalf("expected 0 doses, got %d", len(out))
	}
}
