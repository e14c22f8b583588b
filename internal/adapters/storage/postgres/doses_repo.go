package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dailydose/internal/domain/doses"
)

type DosesRepo struct {
	db *sql.DB
}

func NewDosesRepo(db *sql.DB) *DosesRepo {
	return &DosesRepo{db: db}
}

const doseColumns = `
	id, medication_id, user_id,
	dose_time, scheduled_time,
	status, taken_at, notes,
	created_at, updated_at
`

func (r *DosesRepo) Create(ctx context.Context, d doses.Dose) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_logs (`+doseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		d.ID,
		d.MedicationID,
		d.UserID,
		d.DoseTime,
		d.ScheduledTime,
		string(d.Status),
		d.TakenAt,
		d.Notes,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *DosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return doses.Dose{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+doseColumns+`
		FROM dose_logs
		WHERE id = $1
	`, id)

	d, err := scanDose(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return doses.Dose{}, ErrNotFound
		}
		return doses.Dose{}, err
	}
	return d, nil
}

func (r *DosesRepo) ListForRange(ctx context.Context, userID string, from, to time.Time) ([]doses.Dose, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	// [from, to): mismo criterio de día que usa el service.
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+doseColumns+`
		FROM dose_logs
		WHERE user_id = $1
		  AND dose_time >= $2
		  AND dose_time < $3
		ORDER BY dose_time ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDoses(rows)
}

func (r *DosesRepo) ListByMedication(ctx context.Context, medicationID string) ([]doses.Dose, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+doseColumns+`
		FROM dose_logs
		WHERE medication_id = $1
		ORDER BY dose_time DESC
	`, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDoses(rows)
}

func (r *DosesRepo) UpdateStatus(ctx context.Context, id string, status doses.Status, updatedAt time.Time) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE dose_logs
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(status), updatedAt)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDose(row rowScanner) (doses.Dose, error) {
	var (
		d       doses.Dose
		status  string
		takenAt sql.NullTime
	)

	if err := row.Scan(
		&d.ID,
		&d.MedicationID,
		&d.UserID,
		&d.DoseTime,
		&d.ScheduledTime,
		&status,
		&takenAt,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return doses.Dose{}, err
	}

	// Fail closed: un status desconocido en la tabla es un error de decode.
	// Como el log manda en la reconciliación, dejarlo pasar contaminaría la
	// vista del día con un estado que ningún contador sabe sumar.
	parsed, err := doses.ParseStatus(status)
	if err != nil {
		return doses.Dose{}, fmt.Errorf("decode dose %s: %w", d.ID, err)
	}
	d.Status = parsed

	if takenAt.Valid {
		t := takenAt.Time
		d.TakenAt = &t
	}

	return d, nil
}

func collectDoses(rows *sql.Rows) ([]doses.Dose, error) {
	out := make([]doses.Dose, 0)
	for rows.Next() {
		d, err := scanDose(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
