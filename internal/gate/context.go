package gate

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/lookup"
)

// State is how far a request has progressed through the gate
type State int

const (
	Unauthenticated State = iota
	Authenticated
	IdentityReady
	ResourceReady
	Authorized
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case IdentityReady:
		return "identity_ready"
	case ResourceReady:
		return "resource_ready"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// RequestContext is what the gate knows about one request. Stages return an
// updated copy; handlers receive the final value as a parameter.
type RequestContext struct {
	State    State
	Session  *domain.Session
	Actor    *domain.User
	Resource interface{}
	Params   gin.Params
	Request  *http.Request
	Lookup   *lookup.Cache
}

// Context returns the request's context
func (rc RequestContext) Context() context.Context {
	if rc.Request == nil {
		return context.Background()
	}
	return rc.Request.Context()
}

// ActorID returns the authenticated user's id, or "" for anonymous callers
func (rc RequestContext) ActorID() string {
	if rc.Actor == nil {
		return ""
	}
	return rc.Actor.ID
}

// Param returns a route parameter
func (rc RequestContext) Param(name string) string {
	return rc.Params.ByName(name)
}

// Board returns the resolved resource when it is a board
func (rc RequestContext) Board() *domain.Board {
	b, _ := rc.Resource.(*domain.Board)
	return b
}

// FeatureRequest returns the resolved resource when it is a feature request
func (rc RequestContext) FeatureRequest() *domain.FeatureRequest {
	fr, _ := rc.Resource.(*domain.FeatureRequest)
	return fr
}

// Comment returns the resolved resource when it is a comment
func (rc RequestContext) Comment() *domain.Comment {
	cm, _ := rc.Resource.(*domain.Comment)
	return cm
}
