package worker

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/pkg/metricx"
	"github.com/Abraxas-365/bolsa/recruitment/notification"
)

// NotificationWorker drains the notification queue with a fixed pool.
// Each message is attempted once.
type NotificationWorker struct {
	queue   notification.Queue
	sender  notification.Sender
	workers int
	poll    time.Duration
	wg      sync.WaitGroup
}

func NewNotificationWorker(queue notification.Queue, sender notification.Sender, workers int) *NotificationWorker {
	if workers < 1 {
		workers = 1
	}
	return &NotificationWorker{
		queue:   queue,
		sender:  sender,
		workers: workers,
		poll:    5 * time.Second,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d notification workers", w.workers)

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			w.processMessages(ctx, id)
		}(i)
	}
}

// Wait blocks until every worker has returned after ctx is cancelled
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) processMessages(ctx context.Context, workerID int) {
	logx.Debugf("Notification worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Debugf("Notification worker %d stopping", workerID)
			return
		default:
			msg, err := w.queue.Dequeue(ctx, w.poll)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logx.Errorf("Notification worker %d dequeue error: %v", workerID, err)
				continue
			}

			// queue timeout, nothing pending
			if msg == nil {
				continue
			}

			w.deliver(ctx, workerID, msg)
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, workerID int, msg *notification.Message) {
	if err := w.sender.Send(ctx, *msg); err != nil {
		metricx.NotificationsSent.WithLabelValues("failed").Inc()
		logx.Warnf("Notification worker %d: delivery of %s to %s failed: %v", workerID, msg.ID, msg.To, err)
		return
	}
	metricx.NotificationsSent.WithLabelValues("sent").Inc()
	logx.Infof("Notification %s sent to %s (%s)", msg.ID, msg.To, msg.NewStatus)
}
