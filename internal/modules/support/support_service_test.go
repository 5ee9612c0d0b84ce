package support

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shipnix/shipnix-express/internal/models"
)

type fakeSupportRepo struct {
	tickets  map[string]*models.SupportTicket
	messages map[string][]*models.SupportMessage
}

func newFakeSupportRepo() *fakeSupportRepo {
	return &fakeSupportRepo{
		tickets:  make(map[string]*models.SupportTicket),
		messages: make(map[string][]*models.SupportMessage),
	}
}

func (f *fakeSupportRepo) CreateTicket(ctx context.Context, req models.CreateTicketRequest) (*models.SupportTicket, error) {
	t := &models.SupportTicket{
		ID:            fmt.Sprintf("t-%d", len(f.tickets)+1),
		Subject:       req.Subject,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        models.TicketOpen,
		CreatedAt:     time.Now(),
	}
	f.tickets[t.ID] = t
	f.messages[t.ID] = append(f.messages[t.ID], &models.SupportMessage{
		ID:       1,
		TicketID: t.ID,
		Sender:   req.CustomerName,
		Body:     req.Message,
	})
	cp := *t
	return &cp, nil
}

func (f *fakeSupportRepo) FindTicket(ctx context.Context, id string) (*models.SupportTicket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeSupportRepo) ListTickets(ctx context.Context, page, limit int) ([]*models.SupportTicket, int, error) {
	out := make([]*models.SupportTicket, 0, len(f.tickets))
	for _, t := range f.tickets {
		cp := *t
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeSupportRepo) ListMessages(ctx context.Context, ticketID string) ([]*models.SupportMessage, error) {
	out := make([]*models.SupportMessage, 0, len(f.messages[ticketID]))
	for _, m := range f.messages[ticketID] {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeSupportRepo) InsertMessage(ctx context.Context, ticketID, sender, body string) (*models.SupportMessage, error) {
	m := &models.SupportMessage{
		ID:        int64(len(f.messages[ticketID]) + 1),
		TicketID:  ticketID,
		Sender:    sender,
		Body:      body,
		CreatedAt: time.Now(),
	}
	f.messages[ticketID] = append(f.messages[ticketID], m)
	cp := *m
	return &cp, nil
}

type fakeChatPublisher struct {
	types []string
	data  []interface{}
}

func (p *fakeChatPublisher) Broadcast(eventType string, data interface{}) {
	p.types = append(p.types, eventType)
	p.data = append(p.data, data)
}

func TestOpenTicketStoresOpeningMessage(t *testing.T) {
	fr := newFakeSupportRepo()
	svc := NewService(fr, nil)

	ticket, err := svc.OpenTicket(context.Background(), models.CreateTicketRequest{
		Subject:       "Where is my package?",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Message:       "ST-ABCDEF234 has not moved in days.",
	})
	if err != nil {
		t.Fatalf("OpenTicket error: %v", err)
	}
	if ticket.Status != models.TicketOpen {
		t.Errorf("Status = %s; want open", ticket.Status)
	}

	_, msgs, err := svc.GetTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetTicket error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Sender != "Jane Doe" {
		t.Errorf("messages = %v; want the opening message from Jane Doe", msgs)
	}
}

func TestPostMessageBroadcastsChatMessage(t *testing.T) {
	fr := newFakeSupportRepo()
	pub := &fakeChatPublisher{}
	svc := NewService(fr, pub)
	ticket, _ := svc.OpenTicket(context.Background(), models.CreateTicketRequest{
		Subject:       "Where is my package?",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Message:       "Hello?",
	})

	msg, err := svc.PostMessage(context.Background(), ticket.ID, "support", models.PostMessageRequest{
		Body: "It arrives tomorrow.",
	})
	if err != nil {
		t.Fatalf("PostMessage error: %v", err)
	}
	if msg.Sender != "support" {
		t.Errorf("Sender = %s; want support", msg.Sender)
	}
	if len(pub.types) != 1 || pub.types[0] != "chatMessage" {
		t.Fatalf("broadcast types = %v; want [chatMessage]", pub.types)
	}
	sent, ok := pub.data[0].(*models.SupportMessage)
	if !ok || sent.Body != "It arrives tomorrow." {
		t.Errorf("broadcast data = %v; want the stored message", pub.data[0])
	}
}

func TestPostMessageUnknownTicket(t *testing.T) {
	fr := newFakeSupportRepo()
	pub := &fakeChatPublisher{}
	svc := NewService(fr, pub)

	_, err := svc.PostMessage(context.Background(), "t-404", "support", models.PostMessageRequest{Body: "hi"})
	if err != models.ErrNotFound {
		t.Fatalf("PostMessage error = %v; want ErrNotFound", err)
	}
	if len(pub.types) != 0 {
		t.Errorf("broadcasts = %d; want 0 for failed write", len(pub.types))
	}
}
