package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

var due = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

func TestRenderer_TicketCreated(t *testing.T) {
	r := NewRenderer(time.UTC)
	msg, ok := r.Render(events.Event{
		Type: events.EventTicketCreated,
		Tickets: []events.TicketRef{{
			ID: "t1", Title: "VPN down", Priority: domain.TicketPriorityP1, Content: "cannot connect", DueAt: due,
		}},
	})

	require.True(t, ok)
	assert.Equal(t, "Novo chamado", msg.Summary)
	assert.Equal(t, "Novo chamado P1: VPN down", msg.Title)
	assert.Equal(t, "cannot connect\n\nSLA até: 10/05/2024 14:30:00", msg.Text)
	assert.Equal(t, ColorInfo, msg.ThemeColor)
}

func TestRenderer_SLABreached(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	r := NewRenderer(loc)
	msg, ok := r.Render(events.Event{
		Type: events.EventSLABreached,
		Tickets: []events.TicketRef{
			{ID: "a", Title: "VPN", Priority: domain.TicketPriorityP1, DueAt: due},
			{ID: "b", Title: "Mail", Priority: domain.TicketPriorityP3, DueAt: due.Add(time.Hour)},
		},
	})

	require.True(t, ok)
	assert.Equal(t, "Chamados com SLA vencido", msg.Title)
	assert.Equal(t, ColorAlert, msg.ThemeColor)
	assert.Equal(t, "#a VPN (P1) vencido às 10/05/2024 11:30:00\n#b Mail (P3) vencido às 10/05/2024 12:30:00", msg.Text)
}

func TestRenderer_EmptyEvents(t *testing.T) {
	r := NewRenderer(nil)
	_, ok := r.Render(events.Event{Type: events.EventSLABreached})
	assert.False(t, ok)
	_, ok = r.Render(events.Event{Type: "unknown", Tickets: []events.TicketRef{{ID: "x"}}})
	assert.False(t, ok)
}

func TestTeamsSender_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var card messageCard
		require.NoError(t, json.NewDecoder(r.Body).Decode(&card))
		assert.Equal(t, "MessageCard", card.Type)
		assert.Equal(t, "http://schema.org/extensions", card.Context)
		assert.Equal(t, "SLA vencido", card.Summary)
		assert.Equal(t, ColorAlert, card.ThemeColor)
		assert.Equal(t, "body", card.Text)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewTeamsSender(TeamsConfig{WebhookURL: server.URL}, zap.NewNop())
	err := sender.Send(context.Background(), Message{Summary: "SLA vencido", Title: "t", Text: "body", ThemeColor: ColorAlert})
	assert.NoError(t, err)
}

func TestTeamsSender_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	sender := NewTeamsSender(TeamsConfig{WebhookURL: server.URL}, zap.NewNop())
	err := sender.Send(context.Background(), Message{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestTeamsSender_NoWebhookIsNoop(t *testing.T) {
	sender := NewTeamsSender(TeamsConfig{}, zap.NewNop())
	assert.NoError(t, sender.Send(context.Background(), Message{Title: "t"}))
}

func TestTeamsSender_Unreachable(t *testing.T) {
	sender := NewTeamsSender(TeamsConfig{WebhookURL: "http://127.0.0.1:1", Timeout: time.Second}, zap.NewNop())
	assert.Error(t, sender.Send(context.Background(), Message{Title: "t"}))
}
