package medications

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

// fakeScheduler registra las llamadas Sync/Cancel.
type fakeScheduler struct {
	synced    []string
	cancelled []string
	err       error
}

func (f *fakeScheduler) Sync(ctx context.Context, m Medication) error {
	f.synced = append(f.synced, m.ID)
	return f.err
}

func (f *fakeScheduler) Cancel(ctx context.Context, medicationID string) error {
	f.cancelled = append(f.cancelled, medicationID)
	return f.err
}

func validCreate() CreateInput {
	return CreateInput{
		Name:          "Metformina",
		Form:          "TABLET",
		Strength:      "500mg",
		Dosage:        "1 tableta",
		StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsOngoing:     true,
		SpecificTimes: []string{"08:00", "20:00"},
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsAndDerivedFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(context.Background(), "user-1", validCreate())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if m.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !m.IsActive {
		t.Fatalf("expected active by default")
	}
	if m.ReminderType != ReminderDefault {
		t.Fatalf("expected DEFAULT reminder type, got %s", m.ReminderType)
	}
	// TimesPerDay se deriva de los horarios, no del input.
	if m.TimesPerDay != 2 {
		t.Fatalf("expected times_per_day=2, got %d", m.TimesPerDay)
	}
	if m.CreatedAt != now || m.UpdatedAt != now {
		t.Fatalf("expected timestamps=now")
	}

	if _, err := repo.GetByID(context.Background(), m.ID); err != nil {
		t.Fatalf("expected medication persisted: %v", err)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"nombre vacio", func(in *CreateInput) { in.Name = "  " }},
		{"sin start date", func(in *CreateInput) { in.StartDate = time.Time{} }},
		{"sin horarios", func(in *CreateInput) { in.SpecificTimes = nil }},
		{"horario malformado", func(in *CreateInput) { in.SpecificTimes = []string{"08:00", "8h00"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreate()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), "user-1", in); err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := svc.Create(context.Background(), "", validCreate()); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty user, got %v", err)
	}
}

func TestService_Create_StrictEnums(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	bad := validCreate()
	bad.Form = "PILL"
	if _, err := svc.Create(context.Background(), "user-1", bad); err == nil {
		t.Fatalf("expected error for unknown form")
	}

	bad = validCreate()
	bad.MealTiming = "WHENEVER"
	if _, err := svc.Create(context.Background(), "user-1", bad); err == nil {
		t.Fatalf("expected error for unknown meal timing")
	}

	bad = validCreate()
	bad.Category = "MAGIC"
	if _, err := svc.Create(context.Background(), "user-1", bad); err == nil {
		t.Fatalf("expected error for unknown category")
	}

	ok := validCreate()
	ok.MealTiming = "WITH_MEAL"
	ok.Category = "DIABETES"
	ok.ReminderType = "SILENT"
	m, err := svc.Create(context.Background(), "user-1", ok)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if m.MealTiming == nil || *m.MealTiming != MealWith {
		t.Fatalf("expected meal timing WITH_MEAL, got %v", m.MealTiming)
	}
	if m.Category == nil || *m.Category != CategoryDiabetes {
		t.Fatalf("expected category DIABETES, got %v", m.Category)
	}
	if m.ReminderType != ReminderSilent {
		t.Fatalf("expected SILENT, got %s", m.ReminderType)
	}
}

func TestService_Update_PatchSemantics(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	now1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now2 := now1.Add(time.Hour)

	svc.now = func() time.Time { return now1 }
	m, err := svc.Create(context.Background(), "user-1", validCreate())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	newName := "Metformina XR"
	updated, err := svc.Update(context.Background(), m.ID, UpdateInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if updated.Name != "Metformina XR" {
		t.Fatalf("expected name updated, got %q", updated.Name)
	}
	// Campos no enviados quedan igual.
	if updated.Strength != "500mg" || len(updated.SpecificTimes) != 2 {
		t.Fatalf("expected untouched fields preserved, got %#v", updated)
	}
	if updated.UpdatedAt != now2 || updated.CreatedAt != now1 {
		t.Fatalf("expected only UpdatedAt bumped")
	}

	// Cambiar horarios rederiva TimesPerDay.
	updated, err = svc.Update(context.Background(), m.ID, UpdateInput{
		SpecificTimes: []string{"09:00"},
	})
	if err != nil {
		t.Fatalf("Update times error: %v", err)
	}
	if updated.TimesPerDay != 1 {
		t.Fatalf("expected times_per_day rederived to 1, got %d", updated.TimesPerDay)
	}

	// ClearEnd borra la fecha fin.
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	updated, err = svc.Update(context.Background(), m.ID, UpdateInput{EndDate: &end})
	if err != nil {
		t.Fatalf("Update end error: %v", err)
	}
	if updated.EndDate == nil {
		t.Fatalf("expected end date set")
	}
	updated, err = svc.Update(context.Background(), m.ID, UpdateInput{ClearEnd: true})
	if err != nil {
		t.Fatalf("Update clear end error: %v", err)
	}
	if updated.EndDate != nil {
		t.Fatalf("expected end date cleared")
	}
}

func TestService_ListForDate_FiltersByActivity(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), "user-1", validCreate())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	paused := validCreate()
	paused.Name = "Pausado"
	inactive := false
	paused.Active = &inactive
	if _, err := svc.Create(context.Background(), "user-1", paused); err != nil {
		t.Fatalf("Create paused error: %v", err)
	}

	out, err := svc.ListForDate(context.Background(), "user-1", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListForDate error: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Metformina" {
		t.Fatalf("expected only the active medication, got %#v", out)
	}
}

func TestService_RemindersSyncAndCancel(t *testing.T) {
	repo := newTestRepo()
	sched := &fakeScheduler{}
	svc := NewService(repo, sched)

	m, err := svc.Create(context.Background(), "user-1", validCreate())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(sched.synced) != 1 || sched.synced[0] != m.ID {
		t.Fatalf("expected Sync on create, got %#v", sched.synced)
	}

	rem := true
	if _, err := svc.Update(context.Background(), m.ID, UpdateInput{Reminders: &rem}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(sched.synced) != 2 {
		t.Fatalf("expected Sync on update, got %#v", sched.synced)
	}

	if err := svc.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(sched.cancelled) != 1 || sched.cancelled[0] != m.ID {
		t.Fatalf("expected Cancel on delete, got %#v", sched.cancelled)
	}
}

func TestService_SchedulerFailureIsBestEffort(t *testing.T) {
	repo := newTestRepo()
	sched := &fakeScheduler{err: errors.New("cron down")}
	svc := NewService(repo, sched)

	// Un scheduler roto no voltea la operación de negocio.
	m, err := svc.Create(context.Background(), "user-1", validCreate())
	if err != nil {
		t.Fatalf("Create must succeed even if scheduler fails: %v", err)
	}
	if err := svc.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("Delete must succeed even if scheduler fails: %v", err)
	}
}

func TestActiveOn(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	base := Medication{
		IsActive:  true,
		StartDate: start,
		EndDate:   &end,
	}

	cases := []struct {
		name   string
		mutate func(*Medication)
		date   time.Time
		want   bool
	}{
		{"antes del inicio", nil, start.AddDate(0, 0, -1), false},
		{"dia de inicio", nil, start, true},
		{"dia de fin inclusive", nil, end, true},
		{"despues del fin", nil, end.AddDate(0, 0, 1), false},
		{"mismo dia distinta hora", nil, start.Add(23 * time.Hour), true},
		{"inactivo", func(m *Medication) { m.IsActive = false }, start.AddDate(0, 0, 5), false},
		{"ongoing ignora end", func(m *Medication) { m.IsOngoing = true }, end.AddDate(0, 1, 0), true},
		{"sin end es indefinido", func(m *Medication) { m.EndDate = nil }, end.AddDate(1, 0, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := base
			if tc.mutate != nil {
				tc.mutate(&m)
			}
			if got := ActiveOn(m, tc.date); got != tc.want {
				t.Fatalf("ActiveOn(%v) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}
