package domain

import "strings"

const (
	TicketStatusOpen   = "Open"
	TicketStatusClosed = "Closed"
)

// Ticket is a client support request filed from the portal dashboard.
// OwnerEmail is the session identity the ticket was created under; tickets
// are never visible across owners.
type Ticket struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	OwnerEmail  string `json:"userEmail"`
}

func (t Ticket) IsOpen() bool   { return t.Status == TicketStatusOpen }
func (t Ticket) IsClosed() bool { return t.Status == TicketStatusClosed }

// Close transitions the ticket Open -> Closed. The transition is one-way and
// idempotent: closing an already-closed ticket has no visible effect.
func (t *Ticket) Close() {
	t.Status = TicketStatusClosed
}

// TicketCollection is the full persisted ticket set for one owner plus the
// id counter used for assignment. NextID is durable so ids stay unique for
// the owner even if tickets are ever removed from the set.
type TicketCollection struct {
	NextID  int      `json:"next_id"`
	Tickets []Ticket `json:"tickets"`
}

func NewTicketCollection() TicketCollection {
	return TicketCollection{NextID: 1, Tickets: []Ticket{}}
}

// AllocateID returns the next ticket id and advances the counter.
func (c *TicketCollection) AllocateID() int {
	if c.NextID <= 0 {
		c.NextID = len(c.Tickets) + 1
	}
	id := c.NextID
	c.NextID++
	return id
}

func (c *TicketCollection) Append(t Ticket) {
	c.Tickets = append(c.Tickets, t)
}

// FindByID returns the index of the ticket with the given id, or -1.
func (c TicketCollection) FindByID(id int) int {
	for i, t := range c.Tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// OwnedBy filters the collection to the given owner, preserving insertion
// order.
func (c TicketCollection) OwnedBy(ownerEmail string) []Ticket {
	out := make([]Ticket, 0, len(c.Tickets))
	for _, t := range c.Tickets {
		if t.OwnerEmail == ownerEmail {
			out = append(out, t)
		}
	}
	return out
}

// ValidateTicketInput enforces the submission rules: both fields are
// required, whitespace-only values count as empty.
func ValidateTicketInput(title, description string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return ErrInvalidInput
	}
	return nil
}

func NormalizeTicketStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open":
		return TicketStatusOpen
	case "closed":
		return TicketStatusClosed
	default:
		return ""
	}
}
