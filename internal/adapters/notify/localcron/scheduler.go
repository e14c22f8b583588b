package localcron

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"dailydose/internal/domain/medications"
	"dailydose/internal/platform/logger"
	"dailydose/internal/ports/notify"

	"github.com/robfig/cron/v3"
)

// Scheduler implementa medications.ReminderScheduler con un cron en proceso:
// una entrada diaria por cada horario del medicamento. Al disparar se vuelve a
// chequear ActiveOn con la fecha del día, así el cron nunca avisa algo que la
// vista de dosis no mostraría.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	sender  notify.Sender
	log     logger.Logger
	entries map[string][]cron.EntryID // por medicationID
	now     func() time.Time
}

func New(sender notify.Sender, log logger.Logger) *Scheduler {
	c := cron.New()
	c.Start()

	return &Scheduler{
		cron:    c,
		sender:  sender,
		log:     log,
		entries: make(map[string][]cron.EntryID),
		now:     time.Now,
	}
}

func (s *Scheduler) Sync(ctx context.Context, m medications.Medication) error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("localcron: medication id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(m.ID)

	if !m.RemindersEnabled || !m.IsActive {
		return nil
	}

	for _, ts := range m.SpecificTimes {
		t, err := time.Parse("15:04", strings.TrimSpace(ts))
		if err != nil {
			// Misma tolerancia que el calculador de dosis: se saltea solo
			// el horario roto.
			continue
		}

		med := m
		scheduledTime := ts

		spec := fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour())
		id, err := s.cron.AddFunc(spec, func() {
			s.fire(med, scheduledTime)
		})
		if err != nil {
			return fmt.Errorf("localcron: add entry: %w", err)
		}

		s.entries[m.ID] = append(s.entries[m.ID], id)
	}

	if s.log != nil {
		s.log.Debug("reminders synced", map[string]any{
			"medication_id": m.ID,
			"entries":       len(s.entries[m.ID]),
		})
	}
	return nil
}

func (s *Scheduler) Cancel(ctx context.Context, medicationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(medicationID)
	return nil
}

// Stop frena el cron. Las entradas en vuelo terminan solas.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// EntryCount devuelve cuántas entradas hay programadas para un medicamento.
func (s *Scheduler) EntryCount(medicationID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries[medicationID])
}

func (s *Scheduler) removeLocked(medicationID string) {
	for _, id := range s.entries[medicationID] {
		s.cron.Remove(id)
	}
	delete(s.entries, medicationID)
}

func (s *Scheduler) fire(m medications.Medication, scheduledTime string) {
	if !medications.ActiveOn(m, s.now()) {
		return
	}

	err := s.sender.Send(context.Background(), notify.Reminder{
		MedicationID:   m.ID,
		MedicationName: m.Name,
		UserID:         m.UserID,
		ScheduledTime:  scheduledTime,
		ReminderType:   string(m.ReminderType),
	})
	if err != nil && s.log != nil {
		s.log.Warn("reminder send failed", map[string]any{
			"medication_id": m.ID,
			"error":         err.Error(),
		})
	}
}
