// Package notify рассылает письма по событиям платформы. Отправка асинхронная:
// ошибки логируются и наружу не возвращаются.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/extrasite-backend/internal/goroutine"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/metrics"
)

const sendTimeout = 15 * time.Second

// Mailer рендерит шаблон и отправляет письмо в фоне.
type Mailer struct {
	sender    Sender
	templates *Templates

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewMailer(sender Sender, templates *Templates) *Mailer {
	return &Mailer{sender: sender, templates: templates}
}

// Notify ставит письмо в отправку и сразу возвращается.
func (m *Mailer) Notify(to string, kind Kind, data map[string]any) {
	if to == "" {
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		logger.Component("mail").WithFields(logrus.Fields{"template": kind, "recipient": to}).Warn("mailer closed, email dropped")
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	goroutine.SafeGo(func() {
		defer m.wg.Done()
		m.deliver(to, kind, data)
	})
}

// Wait закрывает mailer для новых писем и ждёт уже начатые отправки.
// Используется при остановке сервера.
func (m *Mailer) Wait(ctx context.Context) {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Component("mail").Warn("shutdown: pending emails abandoned")
	}
}

func (m *Mailer) deliver(to string, kind Kind, data map[string]any) {
	log := logger.Component("mail").WithFields(logrus.Fields{
		"template":  kind,
		"recipient": to,
	})

	rendered, err := m.templates.Render(kind, data)
	if err != nil {
		metrics.EmailsSent.WithLabelValues(string(kind), metrics.ResultError).Inc()
		log.WithError(err).Warn("email render failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	err = m.sender.Send(ctx, Message{To: to, Subject: rendered.Subject, HTML: rendered.HTML})
	metrics.EmailsSent.WithLabelValues(string(kind), metrics.Result(err)).Inc()
	if err != nil {
		log.WithError(err).Warn("email send failed")
		return
	}
	log.Debug("email sent")
}
