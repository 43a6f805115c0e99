// Package notify renders events into chat cards and delivers them to an incoming webhook.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk/internal/events"
)

// Theme colors used by the cards.
const (
	ColorInfo  = "0076D7"
	ColorAlert = "FF0000"
)

// DueLayout formats deadlines in card text.
const DueLayout = "02/01/2006 15:04:05"

// Message is a structured notification: title, free-text body and a color hint.
type Message struct {
	Summary    string
	Title      string
	Text       string
	ThemeColor string
}

// Sink delivers a message to an external channel.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// Renderer turns events into messages.
type Renderer struct {
	loc *time.Location
}

// NewRenderer builds a renderer formatting times in loc.
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// Render returns the message for event, or false when the event carries nothing to send.
func (r *Renderer) Render(event events.Event) (Message, bool) {
	switch event.Type {
	case events.EventTicketCreated:
		if len(event.Tickets) == 0 {
			return Message{}, false
		}
		t := event.Tickets[0]
		return Message{
			Summary:    "Novo chamado",
			Title:      fmt.Sprintf("Novo chamado %s: %s", t.Priority, t.Title),
			Text:       fmt.Sprintf("%s\n\nSLA até: %s", t.Content, r.format(t.DueAt)),
			ThemeColor: ColorInfo,
		}, true
	case events.EventSLABreached:
		if len(event.Tickets) == 0 {
			return Message{}, false
		}
		lines := make([]string, 0, len(event.Tickets))
		for _, t := range event.Tickets {
			lines = append(lines, fmt.Sprintf("#%s %s (%s) vencido às %s", t.ID, t.Title, t.Priority, r.format(t.DueAt)))
		}
		return Message{
			Summary:    "SLA vencido",
			Title:      "Chamados com SLA vencido",
			Text:       strings.Join(lines, "\n"),
			ThemeColor: ColorAlert,
		}, true
	}
	return Message{}, false
}

func (r *Renderer) format(t time.Time) string {
	return t.In(r.loc).Format(DueLayout)
}
