package notifsvc

import (
	"fmt"
	"sync"

	"github.com/darasahq/darasa/core"
)

// ConsoleService prints notifications to the logger and records them.
// Used in DEV|TEST mode; tests inspect Sent().
type ConsoleService struct {
	mu     sync.Mutex
	logger core.Logger
	sent   []core.Notification
}

var _ core.NotificationService = (*ConsoleService)(nil)

func NewConsoleService(logger core.Logger) *ConsoleService {
	return &ConsoleService{logger: logger}
}

func (svc *ConsoleService) Send(notifications ...core.Notification) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, n := range notifications {
		if svc.logger != nil {
			svc.logger.Info(fmt.Sprintf("notification to %s: %s", n.Recipient.Address, n.Message))
		}
		svc.sent = append(svc.sent, n)
	}
}

// Sent returns a copy of everything sent so far.
func (svc *ConsoleService) Sent() []core.Notification {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.Notification(nil), svc.sent...)
}
