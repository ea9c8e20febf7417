package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/rouf-185/coding-practice-dashboard/repositories"
	"github.com/rouf-185/coding-practice-dashboard/utils"

	"go.uber.org/zap"
)

const defaultSendHour = 6

// EmailWorker sends the daily practice reminder. It is run once a minute and
// sends to each opted-in user whose local send time has arrived and who has
// not been emailed yet today (in their own timezone). One user's failure
// never stops the scan.
type EmailWorker struct {
	users    *repositories.UserRepository
	practice *PracticeService
	sender   EmailSender
	logger   *zap.Logger
}

func NewEmailWorker(
	users *repositories.UserRepository,
	practice *PracticeService,
	sender EmailSender,
	logger *zap.Logger,
) *EmailWorker {
	return &EmailWorker{users: users, practice: practice, sender: sender, logger: logger}
}

// RunOnce performs a single scan at the given UTC instant.
func (w *EmailWorker) RunOnce(utcNow time.Time) {
	users, err := w.users.GetDailyEmailEnabled()
	if err != nil {
		w.logger.Error("daily_email_scan_failed", zap.Error(err))
		return
	}

	for i := range users {
		if err := w.processUser(&users[i], utcNow); err != nil {
			utils.DailyEmailCount.WithLabelValues("failed").Inc()
			w.logger.Warn("daily_email_user_failed",
				zap.Uint("user_id", users[i].ID),
				zap.Error(err),
			)
		}
	}
}

func (w *EmailWorker) processUser(user *models.User, utcNow time.Time) error {
	loc := UserLocation(user.Timezone)
	localNow := utcNow.In(loc)
	localToday := dayStartIn(utcNow, loc)

	sendHour, sendMinute := parseSendTime(user.DailyEmailTime)
	if localNow.Hour() < sendHour ||
		(localNow.Hour() == sendHour && localNow.Minute() < sendMinute) {
		return nil
	}

	if user.DailyEmailLastSentAt != nil {
		lastSentLocal := user.DailyEmailLastSentAt.In(loc)
		if dayStartIn(lastSentLocal, loc).Equal(localToday) {
			return nil
		}
	}

	items, err := w.practice.GetPracticeItemsForEmail(user, utcNow)
	if err != nil {
		return err
	}

	dateLabel := localToday.Format("Monday, January 2, 2006")
	subject, body := BuildDailyPracticeEmail(dateLabel, items)

	if err := w.sender.Send(user.Email, subject, body); err != nil {
		return err
	}

	if err := w.users.SetDailyEmailLastSent(user.ID, utcNow); err != nil {
		return err
	}

	utils.DailyEmailCount.WithLabelValues("sent").Inc()
	w.logger.Info("daily_email_sent",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Int("items", len(items)),
	)
	return nil
}

// parseSendTime reads an "HH:MM" preference, defaulting to 06:00 on any
// malformed value.
func parseSendTime(raw string) (hour, minute int) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return defaultSendHour, 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return defaultSendHour, 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return defaultSendHour, 0
	}
	return h, m
}
