package localcron

import (
	"context"

	"dailydose/internal/platform/logger"
	"dailydose/internal/ports/notify"
)

// LogSender es el Sender por defecto: escribe el recordatorio al log.
// Sirve para dev y como fallback hasta conectar un canal real (push/SMS).
type LogSender struct {
	Log logger.Logger
}

func (s LogSender) Send(ctx context.Context, r notify.Reminder) error {
	if s.Log == nil {
		return nil
	}
	s.Log.Info("medication reminder", map[string]any{
		"medication_id":   r.MedicationID,
		"medication_name": r.MedicationName,
		"user_id":         r.UserID,
		"scheduled_time":  r.ScheduledTime,
		"reminder_type":   r.ReminderType,
	})
	return nil
}
