package sessions

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// ControllerRoutes holds the route paths the controller registers.
type ControllerRoutes struct {
	Login    string
	Refresh  string
	Register string
	Logout   string
	Users    string
}

// Controller exposes the Manager over a JSON HTTP surface. It binds and
// validates payloads, threads the caller's locale onto the request context,
// and writes each Result back with its own status code.
type Controller struct {
	Debug        bool
	Logger       Logger
	Manager      *Manager
	Routes       *ControllerRoutes
	ErrorHandler router.ErrorHandler
}

// ControllerOption configures the Controller.
type ControllerOption func(*Controller) *Controller

// NewController creates a Controller with default routes.
func NewController(manager *Manager, opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:       defLogger{},
		Manager:      manager,
		ErrorHandler: defaultErrHandler,
		Routes: &ControllerRoutes{
			Login:    "/login",
			Refresh:  "/refresh",
			Register: "/register",
			Logout:   "/logout",
			Users:    "/users",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = logger
		return c
	}
}

// WithControllerDebug enables payload dumps for local development.
func WithControllerDebug(debug bool) ControllerOption {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

// RegisterSessionRoutes mounts the session lifecycle endpoints.
func RegisterSessionRoutes[T any](app router.Router[T], controller *Controller) {
	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("session.login")

	app.Post(controller.Routes.Refresh, controller.RefreshPost).
		SetName("session.refresh")

	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("session.register")

	app.Post(fmt.Sprintf("%s/:id", controller.Routes.Logout), controller.LogoutPost).
		SetName("session.logout")

	app.Get(controller.Routes.Users, controller.UsersList).
		SetName("session.users")

	app.Delete(fmt.Sprintf("%s/:id", controller.Routes.Users), controller.UserRemove).
		SetName("session.users.remove")
}

// LoginPost handles credential login and returns the token pair.
func (c *Controller) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("login parse payload", "error", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"errors": FormatValidationErrorToMap(err),
		})
	}

	if c.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	res := c.Manager.Login(c.requestContext(ctx), payload.Identifier, payload.Password)
	return respond(ctx, res)
}

// RefreshPost exchanges a refresh token for a new access token.
func (c *Controller) RefreshPost(ctx router.Context) error {
	payload := new(RefreshRequest)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("refresh parse payload", "error", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"errors": FormatValidationErrorToMap(err),
		})
	}

	res := c.Manager.RefreshLogin(c.requestContext(ctx), payload.RefreshToken)
	return respond(ctx, res)
}

// RegisterPost creates a new account.
func (c *Controller) RegisterPost(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("register parse payload", "error", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"errors": FormatValidationErrorToMap(err),
		})
	}

	if c.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	res := c.Manager.Register(c.requestContext(ctx), payload.Input())
	return respond(ctx, res)
}

// LogoutPost clears the account's session state.
func (c *Controller) LogoutPost(ctx router.Context) error {
	id := ctx.Param("id", "")
	res := c.Manager.Logout(c.requestContext(ctx), id)
	return respond(ctx, res)
}

// UsersList returns the public account projections.
func (c *Controller) UsersList(ctx router.Context) error {
	res := c.Manager.ListUsers(c.requestContext(ctx))
	return respond(ctx, res)
}

// UserRemove deletes an account.
func (c *Controller) UserRemove(ctx router.Context) error {
	id := ctx.Param("id", "")
	res := c.Manager.RemoveAccount(c.requestContext(ctx), id)
	return respond(ctx, res)
}

// requestContext threads the caller's locale from the Accept-Language header
// onto the request context.
func (c *Controller) requestContext(ctx router.Context) context.Context {
	reqCtx := ctx.Context()
	if locale := ctx.Header("Accept-Language"); locale != "" {
		reqCtx = WithLocale(reqCtx, locale)
	}
	return reqCtx
}

func respond[T any](ctx router.Context, res Result[T]) error {
	return ctx.JSON(res.Code, res)
}

func defaultErrHandler(c router.Context, err error) error {
	return c.JSON(fiber.StatusBadRequest, map[string]any{
		"message": err.Error(),
	})
}
