package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrobz00/Joseph1/internal/application"
	"github.com/jrobz00/Joseph1/internal/contracts"
	"github.com/jrobz00/Joseph1/internal/domain"
)

func (h *Handler) listTickets(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	tickets, err := h.service.VisibleTickets(r.Context(), actor)
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message, requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, contracts.TicketListResponse{
		Tickets: mapTickets(tickets),
		Count:   len(tickets),
	})
}

func (h *Handler) createTicket(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	ticket, err := h.service.CreateTicket(r.Context(), actor, application.CreateTicketInput{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message, requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, mapTicket(ticket))
}

func (h *Handler) closeTicket(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	ticketID, err := strconv.Atoi(chi.URLParam(r, "ticket_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "ticket id must be an integer", requestIDFromContext(r.Context()))
		return
	}
	ticket, err := h.service.CloseTicket(r.Context(), actor, ticketID)
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message, requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, mapTicket(ticket))
}

func mapTicket(t domain.Ticket) contracts.TicketResponse {
	return contracts.TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		OwnerEmail:  t.OwnerEmail,
	}
}

func mapTickets(in []domain.Ticket) []contracts.TicketResponse {
	out := make([]contracts.TicketResponse, 0, len(in))
	for _, t := range in {
		out = append(out, mapTicket(t))
	}
	return out
}
