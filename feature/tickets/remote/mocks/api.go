package mocks

import (
	"context"

	"ticketsync/feature/tickets/remote"

	"github.com/stretchr/testify/mock"
)

// API is a mock implementation of remote.API
type API struct {
	mock.Mock
}

func (m *API) ListCustomers(ctx context.Context) ([]remote.Customer, error) {
	args := m.Called(ctx)
	customers, _ := args.Get(0).([]remote.Customer)
	return customers, args.Error(1)
}

func (m *API) GetUserByEmail(ctx context.Context, email string) (remote.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(remote.User), args.Error(1)
}

func (m *API) CreateUser(ctx context.Context, req remote.CreateUserRequest) (remote.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(remote.User), args.Error(1)
}

func (m *API) CreateCustomer(ctx context.Context, req remote.CreateCustomerRequest) (remote.Customer, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(remote.Customer), args.Error(1)
}

func (m *API) ListTickets(ctx context.Context) ([]remote.Ticket, error) {
	args := m.Called(ctx)
	tickets, _ := args.Get(0).([]remote.Ticket)
	return tickets, args.Error(1)
}

func (m *API) CreateTicket(ctx context.Context, req remote.CreateTicketRequest) (remote.Ticket, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(remote.Ticket), args.Error(1)
}
