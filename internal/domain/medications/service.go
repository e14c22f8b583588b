package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// ReminderScheduler es el colaborador que programa alarmas para un medicamento.
// La interface vive acá (lado consumidor) para no acoplar el dominio al adapter.
type ReminderScheduler interface {
	Sync(ctx context.Context, m Medication) error
	Cancel(ctx context.Context, medicationID string) error
}

type Service struct {
	repo      Repository
	reminders ReminderScheduler // puede ser nil (sin recordatorios)
	now       func() time.Time
}

func NewService(repo Repository, reminders ReminderScheduler) *Service {
	return &Service{
		repo:      repo,
		reminders: reminders,
		now:       time.Now,
	}
}

type CreateInput struct {
	Name     string
	Form     string
	Strength string
	Dosage   string

	StartDate time.Time
	EndDate   *time.Time
	IsOngoing bool

	SpecificTimes []string

	MealTiming   string // opcional
	Reminders    bool
	ReminderType string // opcional, default DEFAULT

	PrescribedBy string
	Notes        string
	RefillCount  *int
	Category     string // opcional

	Active *bool // opcional, default true
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(userID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	if in.StartDate.IsZero() {
		return Medication{}, ErrInvalidInput
	}

	// Horarios se validan al escribir: un "8h00" guardado rompería el
	// cálculo de dosis de todos los días siguientes.
	times, err := normalizeTimes(in.SpecificTimes)
	if err != nil {
		return Medication{}, err
	}

	form, err := ParseForm(strings.TrimSpace(in.Form))
	if err != nil {
		return Medication{}, err
	}

	var mealTiming *MealTiming
	if strings.TrimSpace(in.MealTiming) != "" {
		mt, err := ParseMealTiming(strings.TrimSpace(in.MealTiming))
		if err != nil {
			return Medication{}, err
		}
		mealTiming = &mt
	}

	reminderType := ReminderDefault
	if strings.TrimSpace(in.ReminderType) != "" {
		reminderType, err = ParseReminderType(strings.TrimSpace(in.ReminderType))
		if err != nil {
			return Medication{}, err
		}
	}

	var category *Category
	if strings.TrimSpace(in.Category) != "" {
		c, err := ParseCategory(strings.TrimSpace(in.Category))
		if err != nil {
			return Medication{}, err
		}
		category = &c
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := s.now()
	m := Medication{
		ID:               uuid.NewString(),
		UserID:           userID,
		Name:             strings.TrimSpace(in.Name),
		Form:             form,
		Strength:         strings.TrimSpace(in.Strength),
		Dosage:           strings.TrimSpace(in.Dosage),
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		IsOngoing:        in.IsOngoing,
		TimesPerDay:      len(times),
		SpecificTimes:    times,
		MealTiming:       mealTiming,
		RemindersEnabled: in.Reminders,
		ReminderType:     reminderType,
		PrescribedBy:     strings.TrimSpace(in.PrescribedBy),
		Notes:            strings.TrimSpace(in.Notes),
		RefillCount:      in.RefillCount,
		Category:         category,
		IsActive:         active,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}

	s.syncReminders(ctx, m)
	return m, nil
}

// UpdateInput usa punteros: campo nil => no se toca (semántica PATCH).
type UpdateInput struct {
	Name     *string
	Form     *string
	Strength *string
	Dosage   *string

	StartDate *time.Time
	EndDate   *time.Time
	ClearEnd  bool
	IsOngoing *bool

	SpecificTimes []string // nil => sin cambio

	MealTiming   *string
	Reminders    *bool
	ReminderType *string

	PrescribedBy *string
	Notes        *string
	RefillCount  *int
	Category     *string

	Active *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	// Copia funcional: se arma el snapshot nuevo y se persiste entero.
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Form != nil {
		form, err := ParseForm(strings.TrimSpace(*in.Form))
		if err != nil {
			return Medication{}, err
		}
		m.Form = form
	}
	if in.Strength != nil {
		m.Strength = strings.TrimSpace(*in.Strength)
	}
	if in.Dosage != nil {
		m.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.StartDate != nil {
		m.StartDate = *in.StartDate
	}
	if in.ClearEnd {
		m.EndDate = nil
	} else if in.EndDate != nil {
		m.EndDate = in.EndDate
	}
	if in.IsOngoing != nil {
		m.IsOngoing = *in.IsOngoing
	}
	if in.SpecificTimes != nil {
		times, err := normalizeTimes(in.SpecificTimes)
		if err != nil {
			return Medication{}, err
		}
		m.SpecificTimes = times
		m.TimesPerDay = len(times)
	}
	if in.MealTiming != nil {
		if strings.TrimSpace(*in.MealTiming) == "" {
			m.MealTiming = nil
		} else {
			mt, err := ParseMealTiming(strings.TrimSpace(*in.MealTiming))
			if err != nil {
				return Medication{}, err
			}
			m.MealTiming = &mt
		}
	}
	if in.Reminders != nil {
		m.RemindersEnabled = *in.Reminders
	}
	if in.ReminderType != nil {
		rt, err := ParseReminderType(strings.TrimSpace(*in.ReminderType))
		if err != nil {
			return Medication{}, err
		}
		m.ReminderType = rt
	}
	if in.PrescribedBy != nil {
		m.PrescribedBy = strings.TrimSpace(*in.PrescribedBy)
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.RefillCount != nil {
		m.RefillCount = in.RefillCount
	}
	if in.Category != nil {
		if strings.TrimSpace(*in.Category) == "" {
			m.Category = nil
		} else {
			c, err := ParseCategory(strings.TrimSpace(*in.Category))
			if err != nil {
				return Medication{}, err
			}
			m.Category = &c
		}
	}
	if in.Active != nil {
		m.IsActive = *in.Active
	}

	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}

	s.syncReminders(ctx, m)
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Medication, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// ListForDate devuelve los medicamentos del usuario activos en la fecha dada.
// El filtro se aplica client-side con ActiveOn para que sea el mismo criterio
// en todos los callers.
func (s *Service) ListForDate(ctx context.Context, userID string, date time.Time) ([]Medication, error) {
	items, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Medication, 0, len(items))
	for _, m := range items {
		if ActiveOn(m, date) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.reminders != nil {
		_ = s.reminders.Cancel(ctx, id) // best-effort
	}
	return nil
}

// OwnerOf expone el userID dueño de un medicamento.
// Lo usan los handlers de otros módulos para chequear acceso sin ciclos de import.
func (s *Service) OwnerOf(ctx context.Context, medicationID string) (string, error) {
	m, err := s.GetByID(ctx, medicationID)
	if err != nil {
		return "", err
	}
	return m.UserID, nil
}

// syncReminders reprograma alarmas tras crear/editar. Best-effort: un fallo del
// scheduler no debe voltear la operación de negocio que ya se persistió.
func (s *Service) syncReminders(ctx context.Context, m Medication) {
	if s.reminders == nil {
		return
	}
	_ = s.reminders.Sync(ctx, m)
}

func normalizeTimes(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, ErrInvalidInput
	}

	out := make([]string, 0, len(in))
	for _, raw := range in {
		ts := strings.TrimSpace(raw)
		if _, err := time.Parse("15:04", ts); err != nil {
			return nil, ErrInvalidInput
		}
		out = append(out, ts)
	}
	return out, nil
}
