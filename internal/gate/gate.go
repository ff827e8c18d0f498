// Package gate runs every protected request through an ordered pipeline:
// resolve identity, sync identity, resolve resource, check ownership, then
// the route handler and the cache fan-out. The first failing stage ends the
// request; nothing after it runs.
package gate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/fanout"
	"feedback-board-api/internal/lookup"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/response"
)

// SessionResolver verifies the caller's credentials. It returns a nil session
// and no error when the request carries none.
type SessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) (*domain.Session, error)
}

// IdentityStore mirrors provider identities into the entity store
type IdentityStore interface {
	Upsert(ctx context.Context, user *domain.User) error
}

// Applier runs the cache fan-out for committed mutations
type Applier interface {
	Apply(ctx context.Context, mutations ...fanout.Mutation)
}

// Outcome is a handler's successful result plus what it changed
type Outcome struct {
	Status    int
	Data      interface{}
	Mutations []fanout.Mutation
}

// OK builds a 200 outcome
func OK(data interface{}, mutations ...fanout.Mutation) *Outcome {
	return &Outcome{Status: http.StatusOK, Data: data, Mutations: mutations}
}

// Created builds a 201 outcome
func Created(data interface{}, mutations ...fanout.Mutation) *Outcome {
	return &Outcome{Status: http.StatusCreated, Data: data, Mutations: mutations}
}

// Handler is a route handler running behind the gate
type Handler func(c *gin.Context, rc RequestContext) (*Outcome, error)

// Route binds a handler to its authorization rule. Ownership is required
// for RequireOwnership and ignored by RequireAuth.
type Route struct {
	Name      string
	Ownership *Ownership
	Handler   Handler
}

// Stage advances a RequestContext by one state or rejects the request
type Stage struct {
	Name string
	Run  func(ctx context.Context, rc RequestContext) (RequestContext, error)
}

// Config holds the gate's collaborators
type Config struct {
	Sessions SessionResolver
	Users    IdentityStore
	Loaders  lookup.Loaders
	Fanout   Applier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Gate builds gated gin handlers
type Gate struct {
	sessions SessionResolver
	users    IdentityStore
	loaders  lookup.Loaders
	fanout   Applier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// New creates a gate
func New(cfg Config) *Gate {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		sessions: cfg.Sessions,
		users:    cfg.Users,
		loaders:  cfg.Loaders,
		fanout:   cfg.Fanout,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
}

// RequireAuth admits any caller with a valid, synced identity
func (g *Gate) RequireAuth(route Route) gin.HandlerFunc {
	return g.pipeline(route, g.resolveIdentity(), g.syncIdentity())
}

// RequireOwnership additionally resolves the route's resource and applies
// its ownership rule
func (g *Gate) RequireOwnership(route Route) gin.HandlerFunc {
	if route.Ownership == nil {
		panic(fmt.Sprintf("gate: route %s has no ownership rule", route.Name))
	}
	return g.pipeline(route,
		g.resolveIdentity(),
		g.syncIdentity(),
		g.resolveResource(route.Ownership),
		g.checkOwnership(route.Ownership),
	)
}

// Identify resolves an optional session for public reads. It never rejects
// and never writes; an invalid session reads as anonymous.
func (g *Gate) Identify(c *gin.Context) RequestContext {
	rc := g.begin(c)
	session, err := g.sessions.Resolve(c.Request.Context(), c.Request)
	if err != nil {
		g.logger.Debug("Ignoring invalid session on public route",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		return rc
	}
	if session == nil || session.ID == "" {
		return rc
	}
	user := session.User()
	rc.Session = session
	rc.Actor = &user
	rc.State = Authenticated
	return rc
}

func (g *Gate) begin(c *gin.Context) RequestContext {
	return RequestContext{
		State:   Unauthenticated,
		Params:  c.Params,
		Request: c.Request,
		Lookup:  lookup.New(g.loaders),
	}
}

func (g *Gate) pipeline(route Route, stages ...Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		rc, err := g.run(ctx, route, g.begin(c), stages)
		if err != nil {
			response.SendAppError(c, err)
			return
		}
		rc.State = Authorized

		outcome, err := route.Handler(c, rc)
		if err != nil {
			g.handlerError(c, route, err)
			return
		}
		if outcome == nil {
			outcome = OK(nil)
		}

		if len(outcome.Mutations) > 0 && g.fanout != nil {
			g.fanout.Apply(ctx, outcome.Mutations...)
		}

		status := outcome.Status
		if status == 0 {
			status = http.StatusOK
		}
		response.SendSuccess(c, status, outcome.Data)
	}
}

// run applies stages in order and stops at the first rejection
func (g *Gate) run(ctx context.Context, route Route, rc RequestContext, stages []Stage) (RequestContext, error) {
	for _, stage := range stages {
		next, err := stage.Run(ctx, rc)
		if err != nil {
			g.reject(route, stage, rc, err)
			return rc, err
		}
		rc = next
	}
	return rc, nil
}

func (g *Gate) reject(route Route, stage Stage, rc RequestContext, err error) {
	_, code, _ := response.StatusFor(err)
	g.metrics.RecordGateRejection(route.Name, strings.ToLower(code))

	fields := []zap.Field{
		zap.String("route", route.Name),
		zap.String("stage", stage.Name),
		zap.String("state", rc.State.String()),
		zap.String("actor_id", rc.ActorID()),
		zap.Error(err),
	}
	switch code {
	case response.ErrCodeIdentitySyncFailed, response.ErrCodeInternal:
		g.logger.Error("Request rejected by gate", fields...)
	case response.ErrCodeForbidden:
		g.logger.Warn("Request rejected by gate", fields...)
	default:
		g.logger.Debug("Request rejected by gate", fields...)
	}
}

func (g *Gate) handlerError(c *gin.Context, route Route, err error) {
	status, code, _ := response.StatusFor(err)
	if status >= http.StatusInternalServerError {
		g.logger.Error("Handler failed",
			zap.String("route", route.Name),
			zap.String("code", code),
			zap.Error(err),
		)
	}
	response.SendAppError(c, err)
}

func (g *Gate) resolveIdentity() Stage {
	return Stage{
		Name: "resolve_identity",
		Run: func(ctx context.Context, rc RequestContext) (RequestContext, error) {
			session, err := g.sessions.Resolve(ctx, rc.Request)
			if err != nil {
				var appErr *response.AppError
				if errors.As(err, &appErr) {
					return rc, appErr
				}
				return rc, response.NewUnauthenticatedError("Invalid or expired session")
			}
			if session == nil || session.ID == "" {
				return rc, response.NewUnauthenticatedError("Authentication required")
			}
			rc.Session = session
			rc.State = Authenticated
			return rc, nil
		},
	}
}

func (g *Gate) syncIdentity() Stage {
	return Stage{
		Name: "sync_identity",
		Run: func(ctx context.Context, rc RequestContext) (RequestContext, error) {
			user := rc.Session.User()
			if err := g.users.Upsert(ctx, &user); err != nil {
				return rc, response.NewIdentitySyncError(err)
			}
			rc.Actor = &user
			rc.State = IdentityReady
			return rc, nil
		},
	}
}

func (g *Gate) resolveResource(ownership *Ownership) Stage {
	return Stage{
		Name: "resolve_resource",
		Run: func(ctx context.Context, rc RequestContext) (RequestContext, error) {
			id := rc.Param(ownership.Param)
			if id == "" {
				return rc, notFound(ownership.Kind, id)
			}
			resource, err := rc.Lookup.Get(ctx, ownership.Kind, id)
			if errors.Is(err, lookup.ErrNotFound) {
				return rc, notFound(ownership.Kind, id)
			}
			if err != nil {
				return rc, response.NewInternalError(err)
			}
			rc.Resource = resource
			rc.State = ResourceReady
			return rc, nil
		},
	}
}

func (g *Gate) checkOwnership(ownership *Ownership) Stage {
	return Stage{
		Name: "check_ownership",
		Run: func(ctx context.Context, rc RequestContext) (RequestContext, error) {
			if !ownership.Allow(rc.ActorID(), rc.Resource) {
				return rc, response.NewForbiddenError()
			}
			return rc, nil
		},
	}
}

func notFound(kind lookup.Kind, id string) error {
	switch kind {
	case lookup.KindBoard:
		return response.NewNotFoundError("Board not found", id)
	case lookup.KindFeatureRequest:
		return response.NewNotFoundError("Feature request not found", id)
	case lookup.KindComment:
		return response.NewNotFoundError("Comment not found", id)
	default:
		return response.NewNotFoundError("Resource not found", id)
	}
}
