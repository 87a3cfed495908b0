package remote

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// User is an account on the remote API.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Customer is a company record owned by a user.
type Customer struct {
	ID            string `json:"_id"`
	User          Ref    `json:"userId"`
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson,omitempty"`
}

// Ticket is a support ticket as listed by the remote API.
//
// Decoding a Ticket never fails on a wrongly typed field: the ticket is flagged
// instead, so one malformed element cannot fail a whole listing. Created reports
// the flag.
type Ticket struct {
	ID        string `json:"_id"`
	Customer  Ref    `json:"customerId"`
	Issue     string `json:"issue"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`

	malformed string
}

type wireTicket struct {
	ID        json.RawMessage `json:"_id"`
	Customer  json.RawMessage `json:"customerId"`
	Issue     json.RawMessage `json:"issue"`
	Status    json.RawMessage `json:"status"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

// UnmarshalJSON decodes one listed ticket. Anything that is not an object, and
// any field of the wrong type, marks the ticket malformed.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	*t = Ticket{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		t.malformed = "not an object"
		return nil
	}
	var w wireTicket
	if err := json.Unmarshal(data, &w); err != nil {
		t.malformed = "not an object"
		return nil
	}

	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"_id", w.ID, &t.ID},
		{"issue", w.Issue, &t.Issue},
		{"status", w.Status, &t.Status},
		{"createdAt", w.CreatedAt, &t.CreatedAt},
	}
	for _, f := range fields {
		if !stringField(f.raw, f.dst) && t.malformed == "" {
			t.malformed = f.name
		}
	}
	if len(w.Customer) > 0 {
		if err := json.Unmarshal(w.Customer, &t.Customer); err != nil && t.malformed == "" {
			t.Customer = Ref{}
			t.malformed = "customerId"
		}
	}
	return nil
}

// stringField stores a JSON string in dst. Absent and null values leave dst
// empty. It reports false for any other JSON type.
func stringField(raw json.RawMessage, dst *string) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return true
	}
	if raw[0] != '"' {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Malformed reports whether a field of the listed ticket had the wrong type.
func (t Ticket) Malformed() bool {
	return t.malformed != ""
}

// Created parses the ticket's creation timestamp. Malformed tickets always
// return an error.
func (t Ticket) Created() (time.Time, error) {
	if t.malformed != "" {
		return time.Time{}, fmt.Errorf("ticket %s: malformed %s", t.ID, t.malformed)
	}
	if t.CreatedAt == "" {
		return time.Time{}, fmt.Errorf("ticket %s has no createdAt", t.ID)
	}
	ts, err := time.Parse(time.RFC3339Nano, t.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("ticket %s: %w", t.ID, err)
	}
	return ts, nil
}

// Ref points at another entity. The API returns references either as a bare id or,
// when populated, as an embedded object.
type Ref struct {
	ID string
	// CompanyName is only known when the reference was embedded.
	CompanyName string
	Embedded    bool
}

type embeddedRef struct {
	ID          string `json:"_id"`
	CompanyName string `json:"companyName,omitempty"`
}

// UnmarshalJSON accepts a string id, an embedded object or null. Other shapes
// decode to the zero Ref.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &r.ID)
	case '{':
		var obj embeddedRef
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = Ref{ID: obj.ID, CompanyName: obj.CompanyName, Embedded: true}
	}
	return nil
}

// MarshalJSON writes embedded references as objects and plain ones as strings.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Embedded {
		return json.Marshal(embeddedRef{ID: r.ID, CompanyName: r.CompanyName})
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateCustomerRequest is the body of POST /customers.
type CreateCustomerRequest struct {
	UserID        string `json:"userId"`
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
}

// CreateTicketRequest is the body of POST /support-ticket.
type CreateTicketRequest struct {
	CustomerID string `json:"customerId"`
	Issue      string `json:"issue"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}
