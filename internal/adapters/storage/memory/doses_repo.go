package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"dailydose/internal/domain/doses"
)

type dosesRepo struct {
	mu   sync.RWMutex
	byID map[string]doses.Dose
}

func NewDosesRepo() doses.Repository {
	return &dosesRepo{
		byID: make(map[string]doses.Dose),
	}
}

func (r *dosesRepo) Create(ctx context.Context, d doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("dose id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dose already exists")
	}

	r.byID[d.ID] = d
	return nil
}

func (r *dosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return doses.Dose{}, ErrNotFound
	}
	return d, nil
}

func (r *dosesRepo) ListForRange(ctx context.Context, userID string, from, to time.Time) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if d.UserID != userID {
			continue
		}
		// [from, to)
		if d.DoseTime.Before(from) || !d.DoseTime.Before(to) {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DoseTime.Before(out[j].DoseTime)
	})

	return out, nil
}

func (r *dosesRepo) ListByMedication(ctx context.Context, medicationID string) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if d.MedicationID == medicationID {
			out = append(out, d)
		}
	}

	// Más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].DoseTime.After(out[j].DoseTime)
	})

	return out, nil
}

func (r *dosesRepo) UpdateStatus(ctx context.Context, id string, status doses.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	d.UpdatedAt = updatedAt
	r.byID[id] = d
	return nil
}
