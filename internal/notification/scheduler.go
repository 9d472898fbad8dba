package notification

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Julian1612/trackerApp/internal/core/domain"
)

// Scheduler keeps the transport's trigger set for a habit exactly equal
// to the habit's enabled reminder subset. Identifiers are derived as
// "{habitID}-{reminderID}", and the habit-id prefix is the only
// cancellation primitive, so repeated application is idempotent and
// orphans left by crashes get swept on the next schedule.
type Scheduler struct {
	transport Transport
}

func NewScheduler(transport Transport) *Scheduler {
	return &Scheduler{transport: transport}
}

func (s *Scheduler) Schedule(ctx context.Context, habit *domain.Habit) error {
	if err := s.Cancel(ctx, habit); err != nil {
		return err
	}

	for _, reminder := range habit.EnabledReminders() {
		body := RandomMessage()
		if reminder.IsCustomMessage && reminder.CustomMessage != "" {
			body = reminder.CustomMessage
		}

		hour, minute := reminder.HourMinute()

		trigger := Trigger{
			ID:     reminder.TriggerID(),
			Title:  fmt.Sprintf("%s %s", habit.Emoji, habit.Title),
			Body:   body,
			Hour:   hour,
			Minute: minute,
		}

		if err := s.transport.Add(ctx, trigger); err != nil {
			return fmt.Errorf("failed to schedule trigger %s: %w", trigger.ID, err)
		}

		log.Printf("Scheduled reminder %s at %02d:%02d", trigger.ID, hour, minute)
	}

	return nil
}

func (s *Scheduler) Cancel(ctx context.Context, habit *domain.Habit) error {
	pending, err := s.transport.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending triggers: %w", err)
	}

	var idsToRemove []string
	for _, t := range pending {
		if strings.HasPrefix(t.ID, habit.ID) {
			idsToRemove = append(idsToRemove, t.ID)
		}
	}

	if len(idsToRemove) == 0 {
		return nil
	}

	if err := s.transport.Remove(ctx, idsToRemove); err != nil {
		return fmt.Errorf("failed to cancel triggers: %w", err)
	}

	log.Printf("Cancelled %d triggers for habit %s", len(idsToRemove), habit.Title)
	return nil
}
