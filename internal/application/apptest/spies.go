package apptest

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// ActivityCall acción registrada por el espía.
type ActivityCall struct {
	UserID  string
	Action  string
	Details map[string]any
}

// ActivitySpy implementa ports.ActivityRecorder guardando las llamadas.
type ActivitySpy struct {
	mu    sync.Mutex
	Calls []ActivityCall
}

func (a *ActivitySpy) Record(ctx context.Context, userID, action string, details map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, ActivityCall{UserID: userID, Action: action, Details: details})
}

// Actions acciones registradas en orden.
func (a *ActivitySpy) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Calls))
	for _, c := range a.Calls {
		out = append(out, c.Action)
	}
	return out
}

// Notice aviso enviado a los administradores.
type Notice struct {
	Kind    entity.NotificationType
	Title   string
	Message string
}

// NotifierSpy implementa ports.Notifier.
type NotifierSpy struct {
	mu      sync.Mutex
	Notices []Notice
}

func (n *NotifierSpy) NotifyAdmins(ctx context.Context, kind entity.NotificationType, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notices = append(n.Notices, Notice{Kind: kind, Title: title, Message: message})
}

// Count avisos del tipo dado.
func (n *NotifierSpy) Count(kind entity.NotificationType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, x := range n.Notices {
		if x.Kind == kind {
			c++
		}
	}
	return c
}

// PublisherSpy implementa ports.ChangePublisher.
type PublisherSpy struct {
	mu     sync.Mutex
	Events []ports.ChangeEvent
}

func (p *PublisherSpy) Publish(ctx context.Context, ev ports.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, ev)
}

// Tables tablas de los eventos publicados, en orden.
func (p *PublisherSpy) Tables() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.Table)
	}
	return out
}

// SessionSpy implementa ports.SessionRevoker.
type SessionSpy struct {
	mu           sync.Mutex
	Disconnected []string
}

func (s *SessionSpy) DisconnectUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Disconnected = append(s.Disconnected, userID)
}

// MetricsSpy implementa ports.SalesMetrics.
type MetricsSpy struct {
	mu        sync.Mutex
	Checkouts int
	Units     int
	Revenue   decimal.Decimal
	Failures  []string
}

func (m *MetricsSpy) ObserveCheckout(lines, units int, total decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Checkouts++
	m.Units += units
	m.Revenue = m.Revenue.Add(total)
}

func (m *MetricsSpy) ObserveCheckoutFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures = append(m.Failures, reason)
}
