package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jrobz00/Joseph1/internal/domain"
	"github.com/jrobz00/Joseph1/internal/ports"
)

const ticketKeyPrefix = "tickets:"

func ticketKey(ownerEmail string) string { return ticketKeyPrefix + ownerEmail }

// Load reads the persisted collection for one owner, returning an empty
// collection when nothing has been saved yet. The legacy persisted form was
// a bare JSON array of tickets; it is still accepted and upgraded to the
// counter-carrying envelope on the next save.
func (s *Service) Load(ctx context.Context, ownerEmail string) (domain.TicketCollection, error) {
	raw, ok, err := s.tickets.Get(ctx, ticketKey(ownerEmail))
	if err != nil {
		return domain.TicketCollection{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return domain.NewTicketCollection(), nil
	}
	return decodeCollection(raw)
}

// Save persists the full collection for one owner. The whole collection is
// serialized on every mutation; concurrent writers are not protected
// against, last save wins.
func (s *Service) Save(ctx context.Context, ownerEmail string, collection domain.TicketCollection) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := s.tickets.Set(ctx, ticketKey(ownerEmail), string(raw)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// CreateTicket files a new ticket for the actor, persists the collection,
// and dispatches the operator notification in the background. Dispatch
// failure never rolls the ticket back.
func (s *Service) CreateTicket(ctx context.Context, actor Actor, input CreateTicketInput) (domain.Ticket, error) {
	if actor.Email == "" {
		return domain.Ticket{}, domain.ErrUnauthorized
	}
	if err := domain.ValidateTicketInput(input.Title, input.Description); err != nil {
		return domain.Ticket{}, err
	}

	collection, err := s.Load(ctx, actor.Email)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket := domain.Ticket{
		ID:          collection.AllocateID(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		OwnerEmail:  actor.Email,
	}
	collection.Append(ticket)
	if err := s.Save(ctx, actor.Email, collection); err != nil {
		return domain.Ticket{}, err
	}

	slog.Default().InfoContext(ctx, "ticket created",
		"operation", "create_ticket",
		"outcome", "success",
		"ticket_id", ticket.ID,
		"request_id", actor.RequestID,
	)
	s.dispatchAsync(ticket)
	return ticket, nil
}

// CloseTicket transitions one of the actor's tickets to Closed. The lookup
// is scoped to the actor: an id belonging to another owner reads as not
// found, so forged ids cannot mutate someone else's ticket.
func (s *Service) CloseTicket(ctx context.Context, actor Actor, ticketID int) (domain.Ticket, error) {
	if actor.Email == "" {
		return domain.Ticket{}, domain.ErrUnauthorized
	}
	collection, err := s.Load(ctx, actor.Email)
	if err != nil {
		return domain.Ticket{}, err
	}
	idx := collection.FindByID(ticketID)
	if idx < 0 || collection.Tickets[idx].OwnerEmail != actor.Email {
		return domain.Ticket{}, domain.ErrNotFound
	}
	if collection.Tickets[idx].IsClosed() {
		return collection.Tickets[idx], nil
	}
	collection.Tickets[idx].Close()
	if err := s.Save(ctx, actor.Email, collection); err != nil {
		return domain.Ticket{}, err
	}
	slog.Default().InfoContext(ctx, "ticket closed",
		"operation", "close_ticket",
		"outcome", "success",
		"ticket_id", ticketID,
		"request_id", actor.RequestID,
	)
	return collection.Tickets[idx], nil
}

// VisibleTickets lists the actor's tickets in insertion order.
func (s *Service) VisibleTickets(ctx context.Context, actor Actor) ([]domain.Ticket, error) {
	if actor.Email == "" {
		return nil, domain.ErrUnauthorized
	}
	collection, err := s.Load(ctx, actor.Email)
	if err != nil {
		return nil, err
	}
	return collection.OwnedBy(actor.Email), nil
}

// dispatchAsync sends the ticket-created notification without blocking the
// request. Errors are logged only.
func (s *Service) dispatchAsync(ticket domain.Ticket) {
	if s.dispatcher == nil {
		return
	}
	payload := ports.NotificationPayload{
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Email:       ticket.OwnerEmail,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
		defer cancel()
		if err := s.dispatcher.Send(ctx, s.cfg.NotifyTemplateID, payload); err != nil {
			slog.Default().ErrorContext(ctx, "ticket notification failed",
				"operation", "dispatch_notification",
				"outcome", "failure",
				"ticket_id", ticket.ID,
				"error", err.Error(),
			)
			return
		}
		slog.Default().InfoContext(ctx, "ticket notification sent",
			"operation", "dispatch_notification",
			"outcome", "success",
			"ticket_id", ticket.ID,
		)
	}()
}

func decodeCollection(raw string) (domain.TicketCollection, error) {
	var collection domain.TicketCollection
	if err := json.Unmarshal([]byte(raw), &collection); err == nil {
		if collection.Tickets == nil {
			collection.Tickets = []domain.Ticket{}
		}
		if collection.NextID <= 0 {
			collection.NextID = maxTicketID(collection.Tickets) + 1
		}
		return collection, nil
	}
	// Legacy layout: a bare array of tickets with length-derived ids.
	var legacy []domain.Ticket
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return domain.TicketCollection{}, fmt.Errorf("%w: corrupt collection: %v", domain.ErrStoreUnavailable, err)
	}
	return domain.TicketCollection{NextID: maxTicketID(legacy) + 1, Tickets: legacy}, nil
}

func maxTicketID(tickets []domain.Ticket) int {
	maxID := 0
	for _, t := range tickets {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}
