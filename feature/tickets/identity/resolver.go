package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"ticketsync/core/syncer"
	"ticketsync/feature/tickets/remote"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Placeholder identifiers handed out in dry-run mode instead of creating entities.
const (
	DryRunUserID     = "dry-run-user"
	DryRunCustomerID = "dry-run-customer"
)

// API is the part of the remote service the resolver needs.
type API interface {
	GetUserByEmail(ctx context.Context, email string) (remote.User, error)
	CreateUser(ctx context.Context, req remote.CreateUserRequest) (remote.User, error)
	CreateCustomer(ctx context.Context, req remote.CreateCustomerRequest) (remote.Customer, error)
}

// Options controls how missing entities are created.
type Options struct {
	// DryRun fabricates placeholders instead of issuing create calls.
	DryRun   bool
	Password string
	Role     string
	Logger   *zap.Logger
	Metrics  *syncer.Metrics
}

// Resolver maps emails to users and company names to customers, creating each
// missing entity at most once per run.
type Resolver struct {
	api  API
	opts Options

	mu        sync.RWMutex
	users     map[string]remote.User
	customers map[string]remote.Customer
	sf        singleflight.Group

	usersCreated     atomic.Int64
	customersCreated atomic.Int64
}

// NewResolver creates a resolver whose customer cache is seeded from an upstream
// listing. A company missing from the listing is treated as absent upstream.
func NewResolver(api API, customers []remote.Customer, opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	r := &Resolver{
		api:       api,
		opts:      opts,
		users:     make(map[string]remote.User),
		customers: make(map[string]remote.Customer, len(customers)),
	}
	for _, c := range customers {
		if name := strings.TrimSpace(c.CompanyName); name != "" {
			r.customers[name] = c
		}
	}
	return r
}

// ResolveUser returns the user for email, looking it up upstream and creating it
// (named name) when the lookup reports 404. Errors are never cached.
func (r *Resolver) ResolveUser(ctx context.Context, name, email string) (remote.User, error) {
	if u, ok := r.cachedUser(email); ok {
		return u, nil
	}

	v, err, _ := r.sf.Do("user:"+email, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if u, ok := r.cachedUser(email); ok {
			return u, nil
		}

		u, err := r.api.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
		case errors.Is(err, remote.ErrNotFound):
			u, err = r.createUser(ctx, name, email)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("look up user %s: %w", email, err)
		}

		r.mu.Lock()
		r.users[email] = u
		r.mu.Unlock()
		return u, nil
	})
	if err != nil {
		return remote.User{}, err
	}
	return v.(remote.User), nil
}

func (r *Resolver) createUser(ctx context.Context, name, email string) (remote.User, error) {
	if r.opts.DryRun {
		r.usersCreated.Add(1)
		r.opts.Metrics.EntityCreated("user")
		r.opts.Logger.Debug("Would create user", zap.String("email", email))
		return remote.User{ID: DryRunUserID, Name: name, Email: email}, nil
	}

	u, err := r.api.CreateUser(ctx, remote.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: r.opts.Password,
		Role:     r.opts.Role,
	})
	if err != nil {
		return remote.User{}, fmt.Errorf("create user %s: %w", email, err)
	}
	r.usersCreated.Add(1)
	r.opts.Metrics.EntityCreated("user")
	r.opts.Logger.Info("Created user", zap.String("email", email), zap.String("user_id", u.ID))
	return u, nil
}

// ResolveCustomer returns the customer for companyName, creating it for user when
// the company is unknown.
func (r *Resolver) ResolveCustomer(ctx context.Context, user remote.User, companyName string) (remote.Customer, error) {
	if c, ok := r.cachedCustomer(companyName); ok {
		return c, nil
	}

	v, err, _ := r.sf.Do("customer:"+companyName, func() (interface{}, error) {
		if c, ok := r.cachedCustomer(companyName); ok {
			return c, nil
		}

		c, err := r.createCustomer(ctx, user, companyName)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.customers[companyName] = c
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return remote.Customer{}, err
	}
	return v.(remote.Customer), nil
}

func (r *Resolver) createCustomer(ctx context.Context, user remote.User, companyName string) (remote.Customer, error) {
	if r.opts.DryRun {
		r.customersCreated.Add(1)
		r.opts.Metrics.EntityCreated("customer")
		r.opts.Logger.Debug("Would create customer", zap.String("company", companyName))
		return remote.Customer{
			ID:            DryRunCustomerID,
			User:          remote.Ref{ID: user.ID},
			CompanyName:   companyName,
			ContactPerson: companyName,
		}, nil
	}

	c, err := r.api.CreateCustomer(ctx, remote.CreateCustomerRequest{
		UserID:        user.ID,
		CompanyName:   companyName,
		ContactPerson: companyName,
	})
	if err != nil {
		return remote.Customer{}, fmt.Errorf("create customer %s: %w", companyName, err)
	}
	r.customersCreated.Add(1)
	r.opts.Metrics.EntityCreated("customer")
	r.opts.Logger.Info("Created customer", zap.String("company", companyName), zap.String("customer_id", c.ID))
	return c, nil
}

// Created reports how many users and customers this resolver created, or would
// have created in dry-run mode.
func (r *Resolver) Created() (users, customers int) {
	return int(r.usersCreated.Load()), int(r.customersCreated.Load())
}

func (r *Resolver) cachedUser(email string) (remote.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	return u, ok
}

func (r *Resolver) cachedCustomer(companyName string) (remote.Customer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[companyName]
	return c, ok
}
