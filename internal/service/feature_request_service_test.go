package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"feedback-board-api/internal/client"
	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/repository"
	"feedback-board-api/internal/response"
)

func TestFeatureRequestService_Create(t *testing.T) {
	board := testBoard("owner")
	actor := &domain.User{ID: "alice", Name: "Alice", Email: "alice@example.com"}

	var created *domain.FeatureRequest
	repo := &MockFeatureRequestRepository{CreateFunc: func(ctx context.Context, fr *domain.FeatureRequest) error {
		fr.ID = uuid.New()
		created = fr
		return nil
	}}
	svc := NewFeatureRequestService(repo, nil, NewSanitizer(), nil, zap.NewNop())

	resp, err := svc.Create(context.Background(), board, actor, &dto.CreateFeatureRequestRequest{
		Title:       "  Dark mode  ",
		Description: "Please <em>add</em> it",
	})

	require.NoError(t, err)
	assert.Equal(t, "Dark mode", resp.Title)
	assert.Equal(t, "Please <em>add</em> it", resp.Description)
	assert.Equal(t, domain.StatusNew, resp.Status)
	assert.Equal(t, "acme", resp.BoardSlug)
	require.NotNil(t, created.SubmitterID)
	assert.Equal(t, "alice", *created.SubmitterID)
	assert.Equal(t, "Alice", created.SubmitterName)
	assert.Equal(t, "alice@example.com", created.SubmitterEmail)

	_, err = svc.Create(context.Background(), board, actor, &dto.CreateFeatureRequestRequest{Title: "<b></b>"})
	assert.True(t, response.HasCode(err, response.ErrCodeValidation))
}

func TestFeatureRequestService_ListByBoard(t *testing.T) {
	boardID := uuid.New()

	tests := []struct {
		name       string
		query      dto.ListFeatureRequestsQuery
		wantFilter repository.FeatureRequestFilter
		wantCode   string
	}{
		{
			name:       "성공: 기본 페이지",
			query:      dto.ListFeatureRequestsQuery{},
			wantFilter: repository.FeatureRequestFilter{Limit: defaultPageSize},
		},
		{
			name:       "성공: 두 번째 페이지 최신순",
			query:      dto.ListFeatureRequestsQuery{Page: 2, Limit: 10, Sort: repository.SortNewest},
			wantFilter: repository.FeatureRequestFilter{Limit: 10, Offset: 10, Sort: repository.SortNewest},
		},
		{
			name:       "성공: 최대 크기 제한",
			query:      dto.ListFeatureRequestsQuery{Limit: 1000},
			wantFilter: repository.FeatureRequestFilter{Limit: maxPageSize},
		},
		{
			name:       "성공: 마지막 허용 페이지",
			query:      dto.ListFeatureRequestsQuery{Page: dto.MaxListPage, Limit: maxPageSize},
			wantFilter: repository.FeatureRequestFilter{Limit: maxPageSize, Offset: (dto.MaxListPage - 1) * maxPageSize},
		},
		{
			name:     "실패: 범위를 벗어난 페이지",
			query:    dto.ListFeatureRequestsQuery{Page: math.MaxInt},
			wantCode: response.ErrCodeValidation,
		},
		{
			name:     "실패: 알 수 없는 상태",
			query:    dto.ListFeatureRequestsQuery{Status: "DONE"},
			wantCode: response.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got repository.FeatureRequestFilter
			repo := &MockFeatureRequestRepository{FindByBoardFunc: func(ctx context.Context, id uuid.UUID, filter repository.FeatureRequestFilter) ([]*domain.FeatureRequest, int64, error) {
				got = filter
				fr := &domain.FeatureRequest{BoardID: id, Title: "Dark mode"}
				return []*domain.FeatureRequest{fr}, 1, nil
			}}
			svc := NewFeatureRequestService(repo, nil, NewSanitizer(), nil, zap.NewNop())

			resp, err := svc.ListByBoard(context.Background(), boardID, "acme", &tt.query)

			if tt.wantCode != "" {
				assert.True(t, response.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFilter, got)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "acme", resp.Items[0].BoardSlug)
			assert.Equal(t, int64(1), resp.Total)
		})
	}

	t.Run("성공: 상태 필터", func(t *testing.T) {
		var got repository.FeatureRequestFilter
		repo := &MockFeatureRequestRepository{FindByBoardFunc: func(ctx context.Context, id uuid.UUID, filter repository.FeatureRequestFilter) ([]*domain.FeatureRequest, int64, error) {
			got = filter
			return nil, 0, nil
		}}
		svc := NewFeatureRequestService(repo, nil, NewSanitizer(), nil, zap.NewNop())

		resp, err := svc.ListByBoard(context.Background(), boardID, "acme", &dto.ListFeatureRequestsQuery{Status: "SHIPPED"})

		require.NoError(t, err)
		require.NotNil(t, got.Status)
		assert.Equal(t, domain.StatusShipped, *got.Status)
		assert.NotNil(t, resp.Items)
	})
}

func TestFeatureRequestService_UpdateStatus(t *testing.T) {
	board := testBoard("owner")
	owner := &domain.User{ID: "owner"}

	newService := func(fr *domain.FeatureRequest, notifier *MockNotificationClient) FeatureRequestService {
		repo := &MockFeatureRequestRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.FeatureRequest, error) {
				updated := *fr
				updated.Status = domain.StatusShipped
				return &updated, nil
			},
		}
		return NewFeatureRequestService(repo, notifier, NewSanitizer(), nil, zap.NewNop())
	}

	t.Run("성공: 작성자에게 알림", func(t *testing.T) {
		fr := testFeatureRequest(board, "alice")
		notifier := &MockNotificationClient{}

		resp, err := newService(fr, notifier).UpdateStatus(context.Background(), fr, owner, &dto.UpdateStatusRequest{Status: domain.StatusShipped})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusShipped, resp.Status)
		events := notifier.Events()
		require.Len(t, events, 1)
		assert.Equal(t, client.NotificationStatusChanged, events[0].Type)
		assert.Equal(t, "alice", events[0].TargetUserID)
	})

	t.Run("성공: 본인 요청은 알림 없음", func(t *testing.T) {
		fr := testFeatureRequest(board, "owner")
		notifier := &MockNotificationClient{}

		_, err := newService(fr, notifier).UpdateStatus(context.Background(), fr, owner, &dto.UpdateStatusRequest{Status: domain.StatusShipped})

		require.NoError(t, err)
		assert.Empty(t, notifier.Events())
	})

	t.Run("실패: 알 수 없는 상태", func(t *testing.T) {
		fr := testFeatureRequest(board, "alice")

		_, err := newService(fr, &MockNotificationClient{}).UpdateStatus(context.Background(), fr, owner, &dto.UpdateStatusRequest{Status: "DONE"})

		assert.True(t, response.HasCode(err, response.ErrCodeValidation))
	})
}

func TestFeatureRequestService_Delete(t *testing.T) {
	fr := testFeatureRequest(testBoard("owner"), "alice")
	repo := &MockFeatureRequestRepository{DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
		return gorm.ErrRecordNotFound
	}}
	svc := NewFeatureRequestService(repo, nil, NewSanitizer(), nil, zap.NewNop())

	err := svc.Delete(context.Background(), fr)

	assert.True(t, response.HasCode(err, response.ErrCodeNotFound))
}
