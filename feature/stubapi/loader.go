package stubapi

import (
	"ticketsync/core/logger"
	"ticketsync/core/middleware/rayid"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	store   *Store
	handler *Handler
}

// NewFeature creates the stub API feature over a fresh store.
func NewFeature(store *Store, l *zap.Logger) *Feature {
	if l == nil {
		l = zap.NewNop()
	}
	return &Feature{store: store, handler: NewHandler(store, l)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "stubapi"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Store returns the state behind the feature.
func (f *Feature) Store() *Store {
	return f.store
}

// NewApp builds a bare fiber app with ray ids and request logging. Features are
// mounted on it by the caller.
func NewApp(l *zap.Logger) *fiber.App {
	if l == nil {
		l = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		err := c.Next()
		rl.Debug("Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if err != nil {
			rl.Error("Request error", zap.Error(err))
		}
		return err
	})
	return app
}

// New returns a ready stub: an app serving a fresh store under prefix. Passwords
// are hashed at the minimum bcrypt cost, which is plenty for a fake.
func New(l *zap.Logger, prefix string) (*fiber.App, *Store) {
	app := NewApp(l)
	store := NewStore(bcrypt.MinCost)
	_ = NewFeature(store, l).Load(app.Group(prefix))
	return app, store
}
