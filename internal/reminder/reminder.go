// Package reminder pushes a "habits due" message to every subscribed
// browser whose owner has let a habit slip.
package reminder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/notifier"
)

type Result struct {
	UsersChecked      int      `json:"usersChecked"`
	NotificationsSent int      `json:"notificationsSent"`
	DueHabits         []string `json:"dueHabits,omitempty"`
	Failures          int      `json:"failures"`
}

type Job struct {
	svc    *habits.Service
	sender notifier.Sender
	limit  int
}

func NewJob(svc *habits.Service, sender notifier.Sender) *Job {
	return &Job{svc: svc, sender: sender, limit: constants.ReminderConcurrency}
}

// Run checks every user with a push subscription. Send failures are
// counted, not returned; only storage errors abort the run.
func (j *Job) Run(ctx context.Context) (Result, error) {
	userIDs, err := j.svc.Store().GetSubscribedUserIDs()
	if err != nil {
		return Result{}, err
	}

	var (
		mu    sync.Mutex
		total Result
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(j.limit)

	for _, id := range userIDs {
		g.Go(func() error {
			r, err := j.NotifyUser(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			total.UsersChecked++
			total.NotificationsSent += r.NotificationsSent
			total.Failures += r.Failures
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}

	logger.Info("Due habit reminders finished",
		"users", total.UsersChecked, "sent", total.NotificationsSent, "failures", total.Failures)
	return total, nil
}

// NotifyUser sends the due-habits message to each of the user's
// subscriptions. Subscriptions the push service reports gone are removed.
func (j *Job) NotifyUser(ctx context.Context, userID string) (Result, error) {
	res := Result{UsersChecked: 1}

	due, err := j.svc.DueHabits(userID)
	if err != nil {
		return res, err
	}
	if len(due) == 0 {
		return res, nil
	}
	for _, h := range due {
		res.DueHabits = append(res.DueHabits, h.Name)
	}

	sent, err := j.Broadcast(ctx, userID, notifier.DueHabitsMessage(res.DueHabits, j.svc.DueThreshold()))
	res.NotificationsSent = sent.NotificationsSent
	res.Failures = sent.Failures
	return res, err
}

// Broadcast sends msg to every subscription of the user.
func (j *Job) Broadcast(ctx context.Context, userID string, msg notifier.Message) (Result, error) {
	res := Result{UsersChecked: 1}
	subs, err := j.svc.Store().GetPushSubscriptions(userID)
	if err != nil {
		return res, err
	}

	var sent, failed atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(j.limit)
	for _, sub := range subs {
		g.Go(func() error {
			if err := j.send(ctx, sub, msg); err != nil {
				failed.Add(1)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res.NotificationsSent = int(sent.Load())
	res.Failures = int(failed.Load())
	return res, nil
}

func (j *Job) send(ctx context.Context, sub models.PushSubscription, msg notifier.Message) error {
	err := j.sender.Send(ctx, sub, msg)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notifier.ErrSubscriptionGone):
		logger.Info("Removing expired push subscription", "user", sub.UserID, "endpoint", sub.Endpoint)
		if derr := j.svc.Store().DeletePushSubscription(sub.UserID, sub.Endpoint); derr != nil {
			logger.Error("Failed to remove push subscription", "endpoint", sub.Endpoint, "error", derr)
		}
	default:
		logger.Warn("Push notification failed", "user", sub.UserID, "endpoint", sub.Endpoint, "error", err)
	}
	return err
}
