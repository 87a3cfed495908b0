package fetch

import (
	"context"
	"errors"
	"testing"

	"ticketsync/feature/tickets/remote"
	"ticketsync/feature/tickets/remote/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFetch_Both(t *testing.T) {
	api := new(mocks.API)
	api.On("ListCustomers", mock.Anything).Return([]remote.Customer{{ID: "c1", CompanyName: "Acme"}}, nil)
	api.On("ListTickets", mock.Anything).Return([]remote.Ticket{{ID: "t1"}, {ID: "t2"}}, nil)

	state, err := New(api, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Customers, 1)
	assert.Len(t, state.Tickets, 2)
	assert.NoError(t, state.TicketsErr)
	api.AssertExpectations(t)
}

func TestFetch_CustomerFailureIsFatal(t *testing.T) {
	api := new(mocks.API)
	boom := errors.New("dial tcp: connection refused")
	api.On("ListCustomers", mock.Anything).Return(nil, boom)
	api.On("ListTickets", mock.Anything).Return([]remote.Ticket{}, nil).Maybe()

	_, err := New(api, nil).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCustomerListing)
	assert.ErrorIs(t, err, boom)
}

func TestFetch_TicketFailureDegrades(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	api := new(mocks.API)
	api.On("ListCustomers", mock.Anything).Return([]remote.Customer{{ID: "c1"}}, nil)
	api.On("ListTickets", mock.Anything).Return(nil, &remote.HTTPError{StatusCode: 500})

	state, err := New(api, zap.New(core)).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Customers, 1)
	assert.Empty(t, state.Tickets)
	assert.ErrorIs(t, state.TicketsErr, ErrTicketListing)
	assert.Equal(t, 1, logs.Len())
}

func TestFetchStrict_TicketFailureIsFatal(t *testing.T) {
	api := new(mocks.API)
	api.On("ListCustomers", mock.Anything).Return([]remote.Customer{}, nil)
	api.On("ListTickets", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := New(api, nil).FetchStrict(context.Background())
	assert.ErrorIs(t, err, ErrTicketListing)
}
