// services/scheduler.go
package services

import (
	"log"
	"time"

	"dojo-learning-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartArchivalScheduler archives events whose end date has passed.
func (s *EventService) StartArchivalScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: archive finished events
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			res := s.DB.Model(&models.DojoEvent{}).
				Where("statut = ? AND date_fin < ?", models.EventActif, time.Now()).
				Update("statut", models.EventArchive)
			if res.Error != nil {
				log.Printf("[Scheduler] DB error archiving events: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("✅ Auto-archived %d finished event(s)", res.RowsAffected)
			}
		}),
	)
}

// StartReconciliationScheduler sweeps all users nightly, re-running the
// level check and badge triggers. It catches level-ups missed when a
// post-submit step failed (the submit path is not transactional).
func StartReconciliationScheduler(users *UserService, badges *BadgeService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			var all []models.User
			if err := users.DB.Find(&all).Error; err != nil {
				log.Printf("[Scheduler] DB error fetching users: %v", err)
				return
			}
			for _, u := range all {
				if _, err := users.CheckAndUpdateLevel(u.ID); err != nil {
					log.Printf("[Scheduler] Level check failed for %s: %v", u.ID, err)
					continue
				}
				badges.VerifyProgress(u.ID)
			}
			log.Printf("✅ Nightly reconciliation done for %d user(s)", len(all))
		}),
	)
}
