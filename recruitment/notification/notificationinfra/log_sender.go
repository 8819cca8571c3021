package notificationinfra

import (
	"context"

	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/recruitment/notification"
)

// LogSender writes notifications to the log instead of sending them
type LogSender struct{}

var _ notification.Sender = LogSender{}

func (LogSender) Send(_ context.Context, msg notification.Message) error {
	subject, body, err := notification.Render(msg)
	if err != nil {
		return err
	}
	logx.With("to", msg.To, "status", msg.NewStatus).Infof("email %q\n%s", subject, body)
	return nil
}
