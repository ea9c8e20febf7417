package services

import (
	"errors"
	"testing"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeSender struct {
	sent    []sentMail
	failFor map[string]error
}

func (s *fakeSender) Send(to, subject, body string) error {
	if err := s.failFor[to]; err != nil {
		return err
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newEmailFixture(t *testing.T) (*fixture, *EmailWorker, *fakeSender) {
	t.Helper()
	f := newFixture(t)
	sender := &fakeSender{failFor: map[string]error{}}
	worker := NewEmailWorker(f.users, f.practice, sender, zap.NewNop())
	return f, worker, sender
}

func mustCreateSubscriber(t *testing.T, f *fixture, username, timezone, sendTime string) *models.User {
	t.Helper()
	u := mustCreateUser(t, f.db, username)
	u.Timezone = timezone
	u.DailyEmailEnabled = true
	u.DailyEmailTime = sendTime
	require.NoError(t, f.db.Save(u).Error)
	return u
}

func TestWorkerSendsAfterLocalSendTime(t *testing.T) {
	f, worker, sender := newEmailFixture(t)
	user := mustCreateSubscriber(t, f, "alice", "UTC", "06:00")
	mustCreateProblem(t, f.db, user.ID, "due", wednesdayNoon.AddDate(0, 0, -2))

	worker.RunOnce(wednesdayNoon)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, user.Email, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Body, "due")
	assert.Contains(t, sender.sent[0].Subject, "Wednesday, July 10, 2024")

	reloaded, err := f.users.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.DailyEmailLastSentAt)
}

func TestWorkerSkipsBeforeSendTime(t *testing.T) {
	f, worker, sender := newEmailFixture(t)
	mustCreateSubscriber(t, f, "alice", "UTC", "06:00")

	worker.RunOnce(time.Date(2024, time.July, 10, 5, 59, 0, 0, time.UTC))

	assert.Empty(t, sender.sent)
}

func TestWorkerSendsOncePerLocalDay(t *testing.T) {
	f, worker, sender := newEmailFixture(t)
	mustCreateSubscriber(t, f, "alice", "UTC", "06:00")

	worker.RunOnce(time.Date(2024, time.July, 10, 6, 0, 0, 0, time.UTC))
	worker.RunOnce(time.Date(2024, time.July, 10, 6, 1, 0, 0, time.UTC))
	worker.RunOnce(time.Date(2024, time.July, 10, 23, 0, 0, 0, time.UTC))
	require.Len(t, sender.sent, 1)

	// A new local day sends again.
	worker.RunOnce(time.Date(2024, time.July, 11, 6, 0, 0, 0, time.UTC))
	assert.Len(t, sender.sent, 2)
}

func TestWorkerHonorsUserTimezone(t *testing.T) {
	f, worker, sender := newEmailFixture(t)
	mustCreateSubscriber(t, f, "alice", "America/New_York", "06:00")

	// 09:00 UTC is 05:00 EDT in July, before the send time.
	worker.RunOnce(time.Date(2024, time.July, 10, 9, 0, 0, 0, time.UTC))
	assert.Empty(t, sender.sent)

	// 10:30 UTC is 06:30 EDT.
	worker.RunOnce(time.Date(2024, time.July, 10, 10, 30, 0, 0, time.UTC))
	assert.Len(t, sender.sent, 1)
}

func TestWorkerSendsEvenWithEmptySchedule(t *testing.T) {
	f, worker, sender := newEmailFixture(t)
	mustCreateSubscriber(t, f, "alice", "UTC", "06:00")

	worker.RunOnce(wednesdayNoon)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "Nothing is due today")
}

func TestWorkerIsolatesPerUserFailures(t *testing.T) {
	f, worker, sender := newEmailFixture(t)
	broken := mustCreateSubscriber(t, f, "alice", "UTC", "06:00")
	healthy := mustCreateSubscriber(t, f, "bob", "UTC", "06:00")
	sender.failFor[broken.Email] = errors.New("mailbox unavailable")

	worker.RunOnce(wednesdayNoon)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, healthy.Email, sender.sent[0].To)

	// The failed user keeps no last-sent mark, so the next scan retries.
	reloaded, err := f.users.GetByID(broken.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.DailyEmailLastSentAt)

	delete(sender.failFor, broken.Email)
	worker.RunOnce(wednesdayNoon.Add(time.Minute))
	assert.Len(t, sender.sent, 2)
}

func TestWorkerIgnoresUnsubscribedUsers(t *testing.T) {
	f, worker, sender := newEmailFixture(t)
	mustCreateUser(t, f.db, "alice")

	worker.RunOnce(wednesdayNoon)

	assert.Empty(t, sender.sent)
}

func TestParseSendTimeDefaults(t *testing.T) {
	for _, raw := range []string{"", "garbage", "25:00", "10:70", "6"} {
		h, m := parseSendTime(raw)
		assert.Equalf(t, 6, h, "raw %q", raw)
		assert.Zerof(t, m, "raw %q", raw)
	}

	h, m := parseSendTime("21:15")
	assert.Equal(t, 21, h)
	assert.Equal(t, 15, m)
}
