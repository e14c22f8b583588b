package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"dailydose/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

const medicationColumns = `
	id, user_id,
	name, form, strength, dosage,
	start_date, end_date, is_ongoing,
	times_per_day, specific_times,
	meal_timing, reminders_enabled, reminder_type,
	prescribed_by, notes, refill_count, category,
	is_active,
	created_at, updated_at
`

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	times, err := json.Marshal(m.SpecificTimes)
	if err != nil {
		return fmt.Errorf("marshal specific_times: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medications (`+medicationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		m.ID,
		m.UserID,
		m.Name,
		string(m.Form),
		m.Strength,
		m.Dosage,
		m.StartDate,
		m.EndDate,
		m.IsOngoing,
		m.TimesPerDay,
		string(times),
		nullableString((*string)(m.MealTiming)),
		m.RemindersEnabled,
		string(m.ReminderType),
		m.PrescribedBy,
		m.Notes,
		m.RefillCount,
		nullableString((*string)(m.Category)),
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	times, err := json.Marshal(m.SpecificTimes)
	if err != nil {
		return fmt.Errorf("marshal specific_times: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE medications SET
			name = $2, form = $3, strength = $4, dosage = $5,
			start_date = $6, end_date = $7, is_ongoing = $8,
			times_per_day = $9, specific_times = $10,
			meal_timing = $11, reminders_enabled = $12, reminder_type = $13,
			prescribed_by = $14, notes = $15, refill_count = $16, category = $17,
			is_active = $18,
			updated_at = $19
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		string(m.Form),
		m.Strength,
		m.Dosage,
		m.StartDate,
		m.EndDate,
		m.IsOngoing,
		m.TimesPerDay,
		string(times),
		nullableString((*string)(m.MealTiming)),
		m.RemindersEnabled,
		string(m.ReminderType),
		m.PrescribedBy,
		m.Notes,
		m.RefillCount,
		nullableString((*string)(m.Category)),
		m.IsActive,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE id = $1
	`, id)

	m, err := scanMedication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, ErrNotFound
		}
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) ListByUser(ctx context.Context, userID string) ([]medications.Medication, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var (
		m            medications.Medication
		form         string
		endDate      sql.NullTime
		times        string
		mealTiming   sql.NullString
		reminderType string
		refillCount  sql.NullInt64
		category     sql.NullString
	)

	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Name,
		&form,
		&m.Strength,
		&m.Dosage,
		&m.StartDate,
		&endDate,
		&m.IsOngoing,
		&m.TimesPerDay,
		&times,
		&mealTiming,
		&m.RemindersEnabled,
		&reminderType,
		&m.PrescribedBy,
		&m.Notes,
		&refillCount,
		&category,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	// Enums se validan también al leer: la tabla la comparten otros writers,
	// un valor desconocido es un error de decode, no algo que se deja pasar.
	parsedForm, err := medications.ParseForm(form)
	if err != nil {
		return medications.Medication{}, fmt.Errorf("decode medication %s: %w", m.ID, err)
	}
	m.Form = parsedForm

	m.ReminderType, err = medications.ParseReminderType(reminderType)
	if err != nil {
		return medications.Medication{}, fmt.Errorf("decode medication %s: %w", m.ID, err)
	}

	if endDate.Valid {
		t := endDate.Time
		m.EndDate = &t
	}
	if mealTiming.Valid {
		mt, err := medications.ParseMealTiming(mealTiming.String)
		if err != nil {
			return medications.Medication{}, fmt.Errorf("decode medication %s: %w", m.ID, err)
		}
		m.MealTiming = &mt
	}
	if refillCount.Valid {
		n := int(refillCount.Int64)
		m.RefillCount = &n
	}
	if category.Valid {
		c, err := medications.ParseCategory(category.String)
		if err != nil {
			return medications.Medication{}, fmt.Errorf("decode medication %s: %w", m.ID, err)
		}
		m.Category = &c
	}

	if err := json.Unmarshal([]byte(times), &m.SpecificTimes); err != nil {
		return medications.Medication{}, fmt.Errorf("unmarshal specific_times: %w", err)
	}

	return m, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
