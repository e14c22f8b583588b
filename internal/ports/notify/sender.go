package notify

import "context"

// Reminder es el aviso que se dispara cuando llega el horario de una toma.
type Reminder struct {
	MedicationID   string
	MedicationName string
	UserID         string
	ScheduledTime  string // "HH:mm"
	ReminderType   string
}

// Sender entrega recordatorios al usuario (push, SMS, lo que sea).
// El scheduler no sabe ni le importa el canal.
type Sender interface {
	Send(ctx context.Context, r Reminder) error
}
