package doses

import (
	"context"
	"time"
)

// Repository persiste los dose_logs (registros reales de tomas).
// Las dosis calculadas nunca pasan por acá.
type Repository interface {
	Create(ctx context.Context, d Dose) error
	GetByID(ctx context.Context, id string) (Dose, error)

	// ListForRange devuelve los logs del usuario con DoseTime en [from, to).
	// Para una vista de día, el caller pasa exactamente un día calendario.
	ListForRange(ctx context.Context, userID string, from, to time.Time) ([]Dose, error)

	// ListByMedication devuelve el historial de logs de un medicamento,
	// más reciente primero.
	ListByMedication(ctx context.Context, medicationID string) ([]Dose, error)

	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
}
