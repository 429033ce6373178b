package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrobz00/Joseph1/internal/adapters/notify"
	"github.com/jrobz00/Joseph1/internal/adapters/security"
	"github.com/jrobz00/Joseph1/internal/adapters/storage/memory"
	"github.com/jrobz00/Joseph1/internal/application"
	"github.com/jrobz00/Joseph1/internal/domain"
)

func newService(t *testing.T) (*application.Service, *memory.TicketStore, *notify.MemoryDispatcher) {
	t.Helper()
	signer, err := security.NewEphemeralJWTSigner("test-key-1")
	if err != nil {
		t.Fatalf("ephemeral signer: %v", err)
	}
	store := memory.NewTicketStore()
	dispatcher := notify.NewMemoryDispatcher()
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:      "client-portal",
			SessionTTL:       time.Hour,
			NotifyTemplateID: "ticket_created",
			NotifyTimeout:    time.Second,
		},
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionRepository(),
		Tickets:    store,
		Hasher:     security.NewBcryptHasher(4),
		Signer:     signer,
		Dispatcher: dispatcher,
	})
	return svc, store, dispatcher
}

func actorFor(email string) application.Actor {
	return application.Actor{Email: email}
}

func waitForSends(t *testing.T, dispatcher *notify.MemoryDispatcher, want int) []notify.SentMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sent := dispatcher.Sent(); len(sent) >= want {
			return sent
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d dispatched notifications, got %d", want, len(dispatcher.Sent()))
	return nil
}

func TestCreateTicketAppendsAndNotifies(t *testing.T) {
	t.Parallel()
	svc, _, dispatcher := newService(t)
	actor := actorFor("a@x.com")

	ticket, err := svc.CreateTicket(context.Background(), actor, application.CreateTicketInput{
		Title:       "Bug",
		Description: "Broken nav",
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if ticket.ID != 1 {
		t.Fatalf("expected id 1, got %d", ticket.ID)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("expected Open status, got %q", ticket.Status)
	}
	if ticket.OwnerEmail != "a@x.com" {
		t.Fatalf("expected owner a@x.com, got %q", ticket.OwnerEmail)
	}

	visible, err := svc.VisibleTickets(context.Background(), actor)
	if err != nil {
		t.Fatalf("visible tickets: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible ticket, got %d", len(visible))
	}

	sent := waitForSends(t, dispatcher, 1)
	if sent[0].TemplateID != "ticket_created" {
		t.Fatalf("expected template ticket_created, got %q", sent[0].TemplateID)
	}
	if sent[0].Payload.Title != "Bug" || sent[0].Payload.Email != "a@x.com" || sent[0].Payload.Status != domain.TicketStatusOpen {
		t.Fatalf("unexpected notification payload: %+v", sent[0].Payload)
	}
}

func TestCreateTicketRejectsEmptyFields(t *testing.T) {
	t.Parallel()
	svc, _, dispatcher := newService(t)
	actor := actorFor("a@x.com")

	cases := []application.CreateTicketInput{
		{Title: "", Description: "something"},
		{Title: "something", Description: ""},
		{Title: "   ", Description: "something"},
	}
	for _, input := range cases {
		if _, err := svc.CreateTicket(context.Background(), actor, input); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}

	visible, err := svc.VisibleTickets(context.Background(), actor)
	if err != nil {
		t.Fatalf("visible tickets: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("rejected creates must not mutate the collection, got %d tickets", len(visible))
	}
	if len(dispatcher.Sent()) != 0 {
		t.Fatalf("rejected creates must not dispatch notifications")
	}
}

func TestCreateTicketRequiresSession(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	_, err := svc.CreateTicket(context.Background(), application.Actor{}, application.CreateTicketInput{
		Title:       "Bug",
		Description: "Broken nav",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCloseTicketTransitionsAndLeavesOthersUntouched(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	actor := actorFor("a@x.com")

	first, err := svc.CreateTicket(context.Background(), actor, application.CreateTicketInput{Title: "Bug", Description: "Broken nav"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateTicket(context.Background(), actor, application.CreateTicketInput{Title: "Feature", Description: "Add signup form"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	closed, err := svc.CloseTicket(context.Background(), actor, first.ID)
	if err != nil {
		t.Fatalf("close ticket: %v", err)
	}
	if closed.Status != domain.TicketStatusClosed {
		t.Fatalf("expected Closed, got %q", closed.Status)
	}

	visible, err := svc.VisibleTickets(context.Background(), actor)
	if err != nil {
		t.Fatalf("visible tickets: %v", err)
	}
	for _, ticket := range visible {
		switch ticket.ID {
		case first.ID:
			if ticket.Status != domain.TicketStatusClosed {
				t.Fatalf("first ticket should be Closed")
			}
			if ticket.Title != first.Title || ticket.Description != first.Description {
				t.Fatalf("close must not change other fields")
			}
		case second.ID:
			if ticket.Status != domain.TicketStatusOpen {
				t.Fatalf("second ticket must stay Open")
			}
		}
	}
}

func TestCloseTicketIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	actor := actorFor("a@x.com")

	ticket, err := svc.CreateTicket(context.Background(), actor, application.CreateTicketInput{Title: "Bug", Description: "Broken nav"})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if _, err := svc.CloseTicket(context.Background(), actor, ticket.ID); err != nil {
		t.Fatalf("first close: %v", err)
	}
	again, err := svc.CloseTicket(context.Background(), actor, ticket.ID)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if again.Status != domain.TicketStatusClosed {
		t.Fatalf("expected Closed after repeat close")
	}
}

func TestCloseTicketUnknownIDLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	actor := actorFor("a@x.com")

	if _, err := svc.CreateTicket(context.Background(), actor, application.CreateTicketInput{Title: "Bug", Description: "Broken nav"}); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if _, err := svc.CloseTicket(context.Background(), actor, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	visible, err := svc.VisibleTickets(context.Background(), actor)
	if err != nil {
		t.Fatalf("visible tickets: %v", err)
	}
	if len(visible) != 1 || visible[0].Status != domain.TicketStatusOpen {
		t.Fatalf("unknown-id close must leave the collection unchanged")
	}
}

func TestCloseTicketCannotCrossOwners(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	owner := actorFor("a@x.com")
	other := actorFor("b@y.com")

	ticket, err := svc.CreateTicket(context.Background(), owner, application.CreateTicketInput{Title: "Bug", Description: "Broken nav"})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if _, err := svc.CloseTicket(context.Background(), other, ticket.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected cross-owner close to read as not found, got %v", err)
	}
	visible, err := svc.VisibleTickets(context.Background(), owner)
	if err != nil {
		t.Fatalf("visible tickets: %v", err)
	}
	if visible[0].Status != domain.TicketStatusOpen {
		t.Fatalf("cross-owner close must not mutate the ticket")
	}
}

func TestVisibleTicketsAreScopedPerOwner(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	if _, err := svc.CreateTicket(context.Background(), actorFor("a@x.com"), application.CreateTicketInput{Title: "Bug", Description: "Broken nav"}); err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	visible, err := svc.VisibleTickets(context.Background(), actorFor("b@y.com"))
	if err != nil {
		t.Fatalf("visible tickets: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("second owner must see zero tickets, got %d", len(visible))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	collection := domain.TicketCollection{
		NextID: 3,
		Tickets: []domain.Ticket{
			{ID: 1, Title: "Bug", Description: "Broken nav", Status: domain.TicketStatusClosed, OwnerEmail: "a@x.com"},
			{ID: 2, Title: "Feature", Description: "Add signup form", Status: domain.TicketStatusOpen, OwnerEmail: "a@x.com"},
		},
	}
	if err := svc.Save(context.Background(), "a@x.com", collection); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := svc.Load(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.NextID != collection.NextID {
		t.Fatalf("expected NextID %d, got %d", collection.NextID, loaded.NextID)
	}
	if len(loaded.Tickets) != len(collection.Tickets) {
		t.Fatalf("expected %d tickets, got %d", len(collection.Tickets), len(loaded.Tickets))
	}
	for i := range collection.Tickets {
		if loaded.Tickets[i] != collection.Tickets[i] {
			t.Fatalf("ticket %d did not round-trip: %+v vs %+v", i, loaded.Tickets[i], collection.Tickets[i])
		}
	}
}

func TestLoadMissingOwnerReturnsEmptyCollection(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	loaded, err := svc.Load(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Tickets) != 0 || loaded.NextID != 1 {
		t.Fatalf("expected fresh collection, got %+v", loaded)
	}
}

func TestLoadAcceptsLegacyBareArray(t *testing.T) {
	t.Parallel()
	svc, store, _ := newService(t)
	legacy := `[{"id":1,"title":"Bug","description":"Broken nav","status":"Open","userEmail":"a@x.com"}]`
	if err := store.Set(context.Background(), "tickets:a@x.com", legacy); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	loaded, err := svc.Load(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("load legacy: %v", err)
	}
	if len(loaded.Tickets) != 1 || loaded.Tickets[0].Title != "Bug" {
		t.Fatalf("legacy tickets lost: %+v", loaded)
	}
	if loaded.NextID != 2 {
		t.Fatalf("expected counter rebuilt past max id, got %d", loaded.NextID)
	}
}

func TestDispatchFailureDoesNotRollBackCreation(t *testing.T) {
	t.Parallel()
	svc, _, dispatcher := newService(t)
	dispatcher.FailWith(errors.New("email api down"))
	actor := actorFor("a@x.com")

	if _, err := svc.CreateTicket(context.Background(), actor, application.CreateTicketInput{Title: "Bug", Description: "Broken nav"}); err != nil {
		t.Fatalf("create ticket must succeed despite dispatch failure: %v", err)
	}
	visible, err := svc.VisibleTickets(context.Background(), actor)
	if err != nil {
		t.Fatalf("visible tickets: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("ticket must persist when notification fails")
	}
}

func TestIDsAdvanceMonotonically(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	actor := actorFor("a@x.com")

	for want := 1; want <= 3; want++ {
		ticket, err := svc.CreateTicket(context.Background(), actor, application.CreateTicketInput{
			Title:       "Ticket",
			Description: "Body",
		})
		if err != nil {
			t.Fatalf("create %d: %v", want, err)
		}
		if ticket.ID != want {
			t.Fatalf("expected id %d, got %d", want, ticket.ID)
		}
	}
}
