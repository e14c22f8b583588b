package doses

import (
	"context"
	"errors"
	"strings"
	"time"

	"dailydose/internal/domain/medications"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// MedicationSource es lo único que el módulo necesita del lado de medicamentos.
// *medications.Service la implementa.
type MedicationSource interface {
	ListForDate(ctx context.Context, userID string, date time.Time) ([]medications.Medication, error)
}

type Service struct {
	repo Repository
	meds MedicationSource
	now  func() time.Time
}

func NewService(repo Repository, meds MedicationSource) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

// DayView es la vista final de un día: tomas enriquecidas + contadores.
type DayView struct {
	Date  time.Time
	Doses []EnrichedDose

	TakenCount   int
	PendingCount int
	MissedCount  int
}

// DayView calcula, reconcilia y enriquece las tomas de un día.
// Los dos fetches (medicamentos y logs) fallan por separado: sin logs se
// devuelve la vista best-effort derivada solo del horario; sin medicamentos no
// hay tomas que calcular pero tampoco es un error para el caller.
func (s *Service) DayView(ctx context.Context, userID string, date time.Time) (DayView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return DayView{}, ErrInvalidInput
	}

	meds, err := s.meds.ListForDate(ctx, userID, date)
	if err != nil {
		meds = nil
	}

	dayStart := dayOf(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	logged, err := s.repo.ListForRange(ctx, userID, dayStart, dayEnd)
	if err != nil {
		logged = nil
	}

	now := s.now()
	calculated := CalculateDosesForDate(meds, userID, date)
	reconciled := Reconcile(calculated, logged, now, sameDay(date, now))
	enriched := Enrich(reconciled, meds)

	view := DayView{
		Date:  dayStart,
		Doses: enriched,
	}
	for _, d := range enriched {
		switch d.Status {
		case StatusTaken:
			view.TakenCount++
		case StatusUpcoming, StatusDue:
			view.PendingCount++
		case StatusMissed:
			view.MissedCount++
		}
	}

	return view, nil
}

// TodayView es DayView para la fecha de hoy.
func (s *Service) TodayView(ctx context.Context, userID string) (DayView, error) {
	return s.DayView(ctx, userID, s.now())
}

type MarkTakenInput struct {
	MedicationID  string
	DoseTime      time.Time
	ScheduledTime string
	Notes         string
}

// MarkTaken crea el log TAKEN de una toma. Si el caller marca dos veces el
// mismo slot, quedan dos logs: la deduplicación no es problema de este módulo
// (Reconcile igual elige uno determinísticamente).
func (s *Service) MarkTaken(ctx context.Context, userID string, in MarkTakenInput) (Dose, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.TrimSpace(in.MedicationID) == "" {
		return Dose{}, ErrInvalidInput
	}
	if in.DoseTime.IsZero() || strings.TrimSpace(in.ScheduledTime) == "" {
		return Dose{}, ErrInvalidInput
	}

	entry := TakenLog(Dose{
		MedicationID:  strings.TrimSpace(in.MedicationID),
		UserID:        userID,
		DoseTime:      in.DoseTime,
		ScheduledTime: strings.TrimSpace(in.ScheduledTime),
		Notes:         strings.TrimSpace(in.Notes),
	}, s.now())
	entry.ID = uuid.NewString()

	if err := s.repo.Create(ctx, entry); err != nil {
		return Dose{}, err
	}
	return entry, nil
}

// UpdateStatus cambia el estado de un log existente (ej: SKIPPED explícito).
// Solo acepta los estados pegajosos: UPCOMING/DUE son proyecciones que se
// recalculan en cada consulta, persistirlos dejaría un log autoritativo con un
// estado que la reconciliación debería derivar sola.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dose{}, ErrInvalidInput
	}

	switch status {
	case StatusTaken, StatusMissed, StatusSkipped:
	default:
		return Dose{}, ErrInvalidInput
	}

	if err := s.repo.UpdateStatus(ctx, id, status, s.now()); err != nil {
		return Dose{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dose{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListByMedication devuelve el historial de logs de un medicamento.
func (s *Service) ListByMedication(ctx context.Context, medicationID string) ([]Dose, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByMedication(ctx, medicationID)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
