package stubapi

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"ticketsync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the support API routes from a Store.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the support API routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/customers", h.HandleListCustomers)
	app.Post("/customers", h.HandleCreateCustomer)

	app.Get("/users/email/:email", h.HandleGetUserByEmail)
	app.Post("/users", h.HandleCreateUser)

	app.Get("/support-ticket", h.HandleListTickets)
	app.Post("/support-ticket", h.HandleCreateTicket)
}

type userResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type customerResponse struct {
	ID            string `json:"_id"`
	UserID        string `json:"userId"`
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
}

type ticketResponse struct {
	ID         string `json:"_id"`
	CustomerID any    `json:"customerId"`
	Issue      string `json:"issue"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

func toUserResponse(u user) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toCustomerResponse(c customer) customerResponse {
	return customerResponse{ID: c.ID, UserID: c.UserID, CompanyName: c.CompanyName, ContactPerson: c.ContactPerson}
}

func toTicketResponse(t ticket, embedded *customer) ticketResponse {
	resp := ticketResponse{
		ID:        t.ID,
		Issue:     t.Issue,
		Status:    t.Status,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if embedded != nil {
		resp.CustomerID = toCustomerResponse(*embedded)
	} else {
		resp.CustomerID = t.CustomerID
	}
	return resp
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// HandleListCustomers handles GET /customers.
func (h *Handler) HandleListCustomers(c *fiber.Ctx) error {
	customers := h.store.listCustomers()
	out := make([]customerResponse, 0, len(customers))
	for _, cu := range customers {
		out = append(out, toCustomerResponse(cu))
	}
	return c.JSON(out)
}

// HandleGetUserByEmail handles GET /users/email/:email.
func (h *Handler) HandleGetUserByEmail(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return message(c, fiber.StatusBadRequest, "invalid email")
	}
	u, err := h.store.userByEmail(email)
	if errors.Is(err, errNotFound) {
		return message(c, fiber.StatusNotFound, "User not found")
	}
	return c.JSON(toUserResponse(u))
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleCreateUser handles POST /users.
func (h *Handler) HandleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return message(c, fiber.StatusBadRequest, "name, email and password are required")
	}
	if req.Role == "" {
		req.Role = "customer"
	}

	u, err := h.store.createUser(req.Name, req.Email, req.Password, req.Role)
	switch {
	case errors.Is(err, errDuplicate):
		return message(c, fiber.StatusConflict, "Email already registered")
	case err != nil:
		logger.WithRayID(h.logger, c).Error("Failed to create user", zap.Error(err))
		return message(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(u))
}

type createCustomerRequest struct {
	UserID        string `json:"userId"`
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
}

// HandleCreateCustomer handles POST /customers.
func (h *Handler) HandleCreateCustomer(c *fiber.Ctx) error {
	var req createCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid payload")
	}
	if req.UserID == "" || strings.TrimSpace(req.CompanyName) == "" || strings.TrimSpace(req.ContactPerson) == "" {
		return message(c, fiber.StatusBadRequest, "userId, companyName and contactPerson are required")
	}

	cu, err := h.store.createCustomer(req.UserID, req.CompanyName, req.ContactPerson)
	if errors.Is(err, errNotFound) {
		return message(c, fiber.StatusNotFound, "User not found")
	}
	return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(cu))
}

// HandleListTickets handles GET /support-ticket.
func (h *Handler) HandleListTickets(c *fiber.Ctx) error {
	views := h.store.listTickets()
	out := make([]ticketResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toTicketResponse(v.ticket, v.Customer))
	}
	return c.JSON(out)
}

type createTicketRequest struct {
	CustomerID string `json:"customerId"`
	Issue      string `json:"issue"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// HandleCreateTicket handles POST /support-ticket.
func (h *Handler) HandleCreateTicket(c *fiber.Ctx) error {
	var req createTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid payload")
	}
	if req.CustomerID == "" || strings.TrimSpace(req.Issue) == "" {
		return message(c, fiber.StatusBadRequest, "Customer ID and issue description are required")
	}
	if req.Status == "" {
		req.Status = "open"
	}
	if _, ok := validStatuses[req.Status]; !ok {
		return message(c, fiber.StatusBadRequest, "Invalid status: "+req.Status)
	}
	var createdAt time.Time
	if req.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, req.CreatedAt)
		if err != nil {
			return message(c, fiber.StatusBadRequest, "Invalid createdAt")
		}
		createdAt = ts
	}

	t, err := h.store.createTicket(req.CustomerID, req.Issue, req.Status, createdAt)
	if errors.Is(err, errNotFound) {
		return message(c, fiber.StatusNotFound, "Customer not found")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Support ticket created successfully",
		"ticket":  toTicketResponse(t, nil),
	})
}
