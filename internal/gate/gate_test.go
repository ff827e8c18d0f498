package gate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/fanout"
	"feedback-board-api/internal/lookup"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/response"
)

const sessionHeader = "X-Test-Session"

type headerSessions struct{}

func (headerSessions) Resolve(_ context.Context, r *http.Request) (*domain.Session, error) {
	id := r.Header.Get(sessionHeader)
	switch id {
	case "":
		return nil, nil
	case "invalid":
		return nil, errors.New("token signature is invalid")
	}
	return &domain.Session{ID: id, Email: id + "@example.com", Name: id}, nil
}

type MockIdentityStore struct {
	UpsertFunc func(ctx context.Context, user *domain.User) error
	calls      int
}

func (m *MockIdentityStore) Upsert(ctx context.Context, user *domain.User) error {
	m.calls++
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, user)
	}
	return nil
}

type recordingApplier struct {
	mutations []fanout.Mutation
}

func (r *recordingApplier) Apply(_ context.Context, mutations ...fanout.Mutation) {
	r.mutations = append(r.mutations, mutations...)
}

type fixture struct {
	gate     *Gate
	users    *MockIdentityStore
	applier  *recordingApplier
	metrics  *metrics.Metrics
	request  *domain.FeatureRequest
	frLoads  int
	boardHit int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	submitter := "submitter"
	board := domain.Board{Slug: "acme", CreatorID: "owner", IsPublic: true}
	board.ID = uuid.New()
	fr := &domain.FeatureRequest{BoardID: board.ID, SubmitterID: &submitter, Title: "Dark mode", Board: board}
	fr.ID = uuid.New()

	f := &fixture{
		users:   &MockIdentityStore{},
		applier: &recordingApplier{},
		metrics: metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop()),
		request: fr,
	}
	loaders := lookup.Loaders{
		lookup.KindFeatureRequest: func(_ context.Context, id string) (interface{}, error) {
			f.frLoads++
			if id != fr.ID.String() {
				return nil, lookup.ErrNotFound
			}
			return fr, nil
		},
		lookup.KindBoard: func(_ context.Context, slug string) (interface{}, error) {
			f.boardHit++
			if slug != board.Slug {
				return nil, lookup.ErrNotFound
			}
			b := board
			return &b, nil
		},
	}
	f.gate = New(Config{
		Sessions: headerSessions{},
		Users:    f.users,
		Loaders:  loaders,
		Fanout:   f.applier,
		Metrics:  f.metrics,
		Logger:   zap.NewNop(),
	})
	return f
}

func serve(t *testing.T, method, pattern, target, actor string, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	r := gin.New()
	r.Handle(method, pattern, h)

	req := httptest.NewRequest(method, target, nil)
	if actor != "" {
		req.Header.Set(sessionHeader, actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func errorCode(body map[string]interface{}) string {
	errBody, _ := body["error"].(map[string]interface{})
	code, _ := errBody["code"].(string)
	return code
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		actor      string
		upsertErr  error
		wantStatus int
		wantCode   string
		wantCalled bool
	}{
		{name: "성공: 유효한 세션", actor: "alice", wantStatus: http.StatusOK, wantCalled: true},
		{name: "실패: 세션 없음", actor: "", wantStatus: http.StatusUnauthorized, wantCode: response.ErrCodeUnauthenticated},
		{name: "실패: 잘못된 세션", actor: "invalid", wantStatus: http.StatusUnauthorized, wantCode: response.ErrCodeUnauthenticated},
		{name: "실패: 사용자 동기화 실패", actor: "alice", upsertErr: errors.New("database is locked"), wantStatus: http.StatusUnauthorized, wantCode: response.ErrCodeIdentitySyncFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.upsertErr != nil {
				f.users.UpsertFunc = func(context.Context, *domain.User) error { return tt.upsertErr }
			}

			called := false
			h := f.gate.RequireAuth(Route{Name: "test.auth", Handler: func(c *gin.Context, rc RequestContext) (*Outcome, error) {
				called = true
				assert.Equal(t, Authorized, rc.State)
				assert.Equal(t, tt.actor, rc.ActorID())
				return OK(gin.H{"actor": rc.ActorID()}), nil
			}})

			w, body := serve(t, http.MethodPost, "/things", "/things", tt.actor, h)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantStatus == http.StatusOK, body["success"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(body))
			}
		})
	}
}

func TestRequireOwnership_ForbiddenNeverRunsHandler(t *testing.T) {
	f := newFixture(t)

	called := false
	h := f.gate.RequireOwnership(Route{
		Name:      "feature_request.delete",
		Ownership: FeatureRequestModifier("id"),
		Handler: func(c *gin.Context, rc RequestContext) (*Outcome, error) {
			called = true
			return OK(nil, fanout.Mutation{Kind: fanout.FeatureRequestDeleted}), nil
		},
	})

	w, body := serve(t, http.MethodDelete, "/requests/:id", "/requests/"+f.request.ID.String(), "mallory", h)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrCodeForbidden, errorCode(body))
	assert.Equal(t, response.MsgForbidden, body["message"])
	assert.False(t, called)
	assert.Empty(t, f.applier.mutations)

	metric := &dto.Metric{}
	require.NoError(t, f.metrics.GateRejectionsTotal.WithLabelValues("feature_request.delete", "forbidden").Write(metric))
	assert.Equal(t, float64(1), metric.Counter.GetValue())
}

func TestRequireOwnership_Allowed(t *testing.T) {
	tests := []struct {
		name  string
		actor string
	}{
		{name: "성공: 작성자", actor: "submitter"},
		{name: "성공: 보드 소유자", actor: "owner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			h := f.gate.RequireOwnership(Route{
				Name:      "feature_request.update",
				Ownership: FeatureRequestModifier("id"),
				Handler: func(c *gin.Context, rc RequestContext) (*Outcome, error) {
					require.NotNil(t, rc.FeatureRequest())
					assert.Equal(t, f.request.ID, rc.FeatureRequest().ID)

					again, err := rc.Lookup.FeatureRequest(rc.Context(), rc.Param("id"))
					require.NoError(t, err)
					assert.Same(t, rc.FeatureRequest(), again)
					assert.Equal(t, 1, rc.Lookup.Loads())

					return OK(gin.H{"id": again.ID}, fanout.Mutation{
						Kind:             fanout.FeatureRequestUpdated,
						BoardSlug:        again.Board.Slug,
						FeatureRequestID: again.ID,
					}), nil
				},
			})

			w, body := serve(t, http.MethodPatch, "/requests/:id", "/requests/"+f.request.ID.String(), tt.actor, h)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, 1, f.frLoads)
			require.Len(t, f.applier.mutations, 1)
			assert.Equal(t, fanout.FeatureRequestUpdated, f.applier.mutations[0].Kind)
		})
	}
}

func TestRequireOwnership_NotFound(t *testing.T) {
	f := newFixture(t)

	called := false
	h := f.gate.RequireOwnership(Route{
		Name:      "feature_request.update",
		Ownership: FeatureRequestModifier("id"),
		Handler: func(c *gin.Context, rc RequestContext) (*Outcome, error) {
			called = true
			return OK(nil), nil
		},
	})

	w, body := serve(t, http.MethodPatch, "/requests/:id", "/requests/"+uuid.NewString(), "owner", h)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrCodeNotFound, errorCode(body))
	assert.False(t, called)
}

func TestRequireOwnership_StoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.gate.loaders[lookup.KindFeatureRequest] = func(context.Context, string) (interface{}, error) {
		return nil, errors.New("connection reset by peer")
	}

	h := f.gate.RequireOwnership(Route{
		Name:      "feature_request.update",
		Ownership: FeatureRequestModifier("id"),
		Handler: func(c *gin.Context, rc RequestContext) (*Outcome, error) {
			t.Fatal("handler must not run")
			return nil, nil
		},
	})

	w, body := serve(t, http.MethodPatch, "/requests/:id", "/requests/"+f.request.ID.String(), "owner", h)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["message"])
}

func TestRequireOwnership_UnauthenticatedSkipsLookup(t *testing.T) {
	f := newFixture(t)

	h := f.gate.RequireOwnership(Route{
		Name:      "board.update",
		Ownership: BoardOwner("slug"),
		Handler: func(c *gin.Context, rc RequestContext) (*Outcome, error) {
			return OK(nil), nil
		},
	})

	w, _ := serve(t, http.MethodPatch, "/boards/:slug", "/boards/acme", "", h)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, f.boardHit)
	assert.Equal(t, 0, f.users.calls)
}

func TestHandlerErrorSkipsFanout(t *testing.T) {
	f := newFixture(t)

	h := f.gate.RequireAuth(Route{Name: "board.create", Handler: func(c *gin.Context, rc RequestContext) (*Outcome, error) {
		return nil, response.NewValidationError("Slug already taken", "acme")
	}})

	w, body := serve(t, http.MethodPost, "/boards", "/boards", "alice", h)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrCodeValidation, errorCode(body))
	assert.Empty(t, f.applier.mutations)
}

func TestRequireOwnership_PanicsWithoutRule(t *testing.T) {
	f := newFixture(t)
	assert.Panics(t, func() {
		f.gate.RequireOwnership(Route{Name: "broken"})
	})
}

func TestIdentify(t *testing.T) {
	f := newFixture(t)

	var got RequestContext
	h := func(c *gin.Context) {
		got = f.gate.Identify(c)
		response.SendSuccess(c, http.StatusOK, nil)
	}

	serve(t, http.MethodGet, "/boards/:slug", "/boards/acme", "", h)
	assert.Equal(t, Unauthenticated, got.State)
	assert.Empty(t, got.ActorID())

	serve(t, http.MethodGet, "/boards/:slug", "/boards/acme", "invalid", h)
	assert.Equal(t, Unauthenticated, got.State)

	serve(t, http.MethodGet, "/boards/:slug", "/boards/acme", "alice", h)
	assert.Equal(t, Authenticated, got.State)
	assert.Equal(t, "alice", got.ActorID())
	assert.Equal(t, "acme", got.Param("slug"))
	assert.Equal(t, 0, f.users.calls)
}

func TestPresets(t *testing.T) {
	owner := "owner"
	author := "author"
	private := &domain.Board{Slug: "secret", CreatorID: owner}
	fr := &domain.FeatureRequest{Board: *private}
	cm := &domain.Comment{AuthorID: &author, FeatureRequest: domain.FeatureRequest{Board: domain.Board{CreatorID: owner}}}

	assert.True(t, BoardOwner("slug").Allow(owner, private))
	assert.False(t, BoardOwner("slug").Allow(author, private))
	assert.False(t, BoardOwner("slug").Allow(owner, fr))

	assert.False(t, BoardContributor("slug").Allow(author, private))
	assert.True(t, BoardContributor("slug").Allow(owner, private))
	assert.False(t, FeatureRequestContributor("id").Allow("", fr))

	assert.True(t, FeatureRequestBoardOwner("id").Allow(owner, fr))
	assert.False(t, FeatureRequestBoardOwner("id").Allow(author, fr))

	assert.True(t, CommentModifier("id").Allow(author, cm))
	assert.True(t, CommentModifier("id").Allow(owner, cm))
	assert.False(t, CommentModifier("id").Allow("someone", cm))
}
