package stubapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("already exists")
)

// Ticket statuses accepted by the stub.
var validStatuses = map[string]struct{}{
	"open":        {},
	"in_progress": {},
	"closed":      {},
}

type user struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
}

type customer struct {
	ID            string
	UserID        string
	CompanyName   string
	ContactPerson string
}

type ticket struct {
	ID         string
	CustomerID string
	Issue      string
	Status     string
	CreatedAt  time.Time
}

// Store is the in-memory state behind the stub API.
type Store struct {
	mu           sync.RWMutex
	passwordCost int
	users        map[string]*user
	usersByEmail map[string]*user
	customers    map[string]*customer
	// order keeps listings stable.
	customerOrder []string
	tickets       []*ticket
	now           func() time.Time
}

// NewStore creates an empty store hashing passwords with the given bcrypt cost.
func NewStore(passwordCost int) *Store {
	if passwordCost < bcrypt.MinCost || passwordCost > bcrypt.MaxCost {
		passwordCost = bcrypt.DefaultCost
	}
	return &Store{
		passwordCost: passwordCost,
		users:        make(map[string]*user),
		usersByEmail: make(map[string]*user),
		customers:    make(map[string]*customer),
		now:          time.Now,
	}
}

// Counts reports how many entities of each kind exist.
func (s *Store) Counts() (users, customers, tickets int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.customers), len(s.tickets)
}

func (s *Store) userByEmail(email string) (user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return user{}, errNotFound
	}
	return *u, nil
}

func (s *Store) createUser(name, email, password, role string) (user, error) {
	// Hash outside the lock; bcrypt is deliberately slow.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return user{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := s.usersByEmail[key]; ok {
		return user{}, errDuplicate
	}
	u := &user{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	}
	s.users[u.ID] = u
	s.usersByEmail[key] = u
	return *u, nil
}

// CheckPassword reports whether password matches the stored hash for email.
func (s *Store) CheckPassword(email, password string) bool {
	u, err := s.userByEmail(email)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (s *Store) listCustomers() []customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]customer, 0, len(s.customerOrder))
	for _, id := range s.customerOrder {
		out = append(out, *s.customers[id])
	}
	return out
}

func (s *Store) createCustomer(userID, companyName, contactPerson string) (customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return customer{}, errNotFound
	}
	c := &customer{
		ID:            uuid.NewString(),
		UserID:        userID,
		CompanyName:   companyName,
		ContactPerson: contactPerson,
	}
	s.customers[c.ID] = c
	s.customerOrder = append(s.customerOrder, c.ID)
	return *c, nil
}

// ticketView is a ticket joined with its customer, as listed by the API.
type ticketView struct {
	ticket
	Customer *customer
}

func (s *Store) listTickets() []ticketView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ticketView, 0, len(s.tickets))
	for _, t := range s.tickets {
		v := ticketView{ticket: *t}
		if c, ok := s.customers[t.CustomerID]; ok {
			cc := *c
			v.Customer = &cc
		}
		out = append(out, v)
	}
	// Newest first, like the real listing.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) createTicket(customerID, issue, status string, createdAt time.Time) (ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[customerID]; !ok {
		return ticket{}, errNotFound
	}
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	t := &ticket{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Issue:      issue,
		Status:     status,
		CreatedAt:  createdAt.UTC(),
	}
	s.tickets = append(s.tickets, t)
	return *t, nil
}
