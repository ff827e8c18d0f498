package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"feedback-board-api/internal/client"
	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/repository"
)

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	CreateFunc        func(ctx context.Context, board *domain.Board) error
	FindBySlugFunc    func(ctx context.Context, slug string) (*domain.Board, error)
	FindByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByCreatorFunc func(ctx context.Context, creatorID string) ([]*domain.Board, error)
	SlugExistsFunc    func(ctx context.Context, slug string) (bool, error)
	UpdateFunc        func(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteFunc        func(ctx context.Context, id uuid.UUID) ([]string, error)
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, board)
	}
	board.ID = uuid.New()
	return nil
}

func (m *MockBoardRepository) FindBySlug(ctx context.Context, slug string) (*domain.Board, error) {
	if m.FindBySlugFunc != nil {
		return m.FindBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindByCreator(ctx context.Context, creatorID string) ([]*domain.Board, error) {
	if m.FindByCreatorFunc != nil {
		return m.FindByCreatorFunc(ctx, creatorID)
	}
	return nil, nil
}

func (m *MockBoardRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.SlugExistsFunc != nil {
		return m.SlugExistsFunc(ctx, slug)
	}
	return false, nil
}

func (m *MockBoardRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, updates)
	}
	return nil
}

func (m *MockBoardRepository) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil, nil
}

// MockFeatureRequestRepository is a mock implementation of FeatureRequestRepository
type MockFeatureRequestRepository struct {
	CreateFunc           func(ctx context.Context, fr *domain.FeatureRequest) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.FeatureRequest, error)
	FindByBoardFunc      func(ctx context.Context, boardID uuid.UUID, filter repository.FeatureRequestFilter) ([]*domain.FeatureRequest, int64, error)
	UpdateFunc           func(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
	StatsForOwnerFunc    func(ctx context.Context, ownerID string) (*repository.OwnerStats, error)
	CountSubmittedByFunc func(ctx context.Context, userID string) (int64, error)
	FindCounterDriftFunc func(ctx context.Context) ([]repository.CounterDrift, error)
}

func (m *MockFeatureRequestRepository) Create(ctx context.Context, fr *domain.FeatureRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, fr)
	}
	fr.ID = uuid.New()
	return nil
}

func (m *MockFeatureRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FeatureRequest, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockFeatureRequestRepository) FindByBoard(ctx context.Context, boardID uuid.UUID, filter repository.FeatureRequestFilter) ([]*domain.FeatureRequest, int64, error) {
	if m.FindByBoardFunc != nil {
		return m.FindByBoardFunc(ctx, boardID, filter)
	}
	return nil, 0, nil
}

func (m *MockFeatureRequestRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, updates)
	}
	return nil
}

func (m *MockFeatureRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockFeatureRequestRepository) StatsForOwner(ctx context.Context, ownerID string) (*repository.OwnerStats, error) {
	if m.StatsForOwnerFunc != nil {
		return m.StatsForOwnerFunc(ctx, ownerID)
	}
	return &repository.OwnerStats{ByStatus: map[domain.FeatureRequestStatus]int64{}}, nil
}

func (m *MockFeatureRequestRepository) CountSubmittedBy(ctx context.Context, userID string) (int64, error) {
	if m.CountSubmittedByFunc != nil {
		return m.CountSubmittedByFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockFeatureRequestRepository) FindCounterDrift(ctx context.Context) ([]repository.CounterDrift, error) {
	if m.FindCounterDriftFunc != nil {
		return m.FindCounterDriftFunc(ctx)
	}
	return nil, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc               func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByFeatureRequestFunc func(ctx context.Context, featureRequestID uuid.UUID) ([]*domain.Comment, error)
	UpdateContentFunc        func(ctx context.Context, id uuid.UUID, content string) error
	DeleteFunc               func(ctx context.Context, comment *domain.Comment) (int64, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	comment.ID = uuid.New()
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindByFeatureRequest(ctx context.Context, featureRequestID uuid.UUID) ([]*domain.Comment, error) {
	if m.FindByFeatureRequestFunc != nil {
		return m.FindByFeatureRequestFunc(ctx, featureRequestID)
	}
	return nil, nil
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	if m.UpdateContentFunc != nil {
		return m.UpdateContentFunc(ctx, id, content)
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, comment *domain.Comment) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, comment)
	}
	return 1, nil
}

// MockUpvoteRepository is a mock implementation of UpvoteRepository
type MockUpvoteRepository struct {
	ToggleFunc             func(ctx context.Context, featureRequestID uuid.UUID, userID string) (bool, int64, error)
	FindUpvotedOnBoardFunc func(ctx context.Context, boardID uuid.UUID, userID string) ([]uuid.UUID, error)
}

func (m *MockUpvoteRepository) Toggle(ctx context.Context, featureRequestID uuid.UUID, userID string) (bool, int64, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, featureRequestID, userID)
	}
	return false, 0, nil
}

func (m *MockUpvoteRepository) FindUpvotedOnBoard(ctx context.Context, boardID uuid.UUID, userID string) ([]uuid.UUID, error) {
	if m.FindUpvotedOnBoardFunc != nil {
		return m.FindUpvotedOnBoardFunc(ctx, boardID, userID)
	}
	return nil, nil
}

// MockLogoStorage is a mock implementation of client.LogoStorage
type MockLogoStorage struct {
	PresignLogoUploadFunc func(ctx context.Context, boardID uuid.UUID, contentType string) (string, string, error)
	ObjectExistsFunc      func(ctx context.Context, key string) error
	DeleteFileFunc        func(ctx context.Context, key string) error
}

func (m *MockLogoStorage) GenerateLogoKey(boardID uuid.UUID, contentType string) (string, error) {
	return client.LogoKeyPrefix(boardID) + "2024/01/logo.png", nil
}

func (m *MockLogoStorage) PresignLogoUpload(ctx context.Context, boardID uuid.UUID, contentType string) (string, string, error) {
	if m.PresignLogoUploadFunc != nil {
		return m.PresignLogoUploadFunc(ctx, boardID, contentType)
	}
	key, _ := m.GenerateLogoKey(boardID, contentType)
	return "https://s3.example.com/" + key + "?X-Amz-Signature=abc", key, nil
}

func (m *MockLogoStorage) ObjectExists(ctx context.Context, key string) error {
	if m.ObjectExistsFunc != nil {
		return m.ObjectExistsFunc(ctx, key)
	}
	return nil
}

func (m *MockLogoStorage) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

func (m *MockLogoStorage) GetFileURL(key string) string {
	return "https://cdn.example.com/" + key
}

// MockNotificationClient records every event it is asked to send
type MockNotificationClient struct {
	mu     sync.Mutex
	events []client.NotificationEvent
}

func (m *MockNotificationClient) SendNotification(ctx context.Context, event client.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockNotificationClient) SendBulkNotifications(ctx context.Context, events []client.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockNotificationClient) Events() []client.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]client.NotificationEvent(nil), m.events...)
}

// fixtures

func testBoard(creatorID string) *domain.Board {
	b := &domain.Board{Slug: "acme", Name: "Acme", CreatorID: creatorID, IsPublic: true}
	b.ID = uuid.New()
	return b
}

func testFeatureRequest(board *domain.Board, submitterID string) *domain.FeatureRequest {
	fr := &domain.FeatureRequest{
		BoardID:     board.ID,
		SubmitterID: &submitterID,
		Title:       "Dark mode",
		Status:      domain.StatusNew,
		Board:       *board,
	}
	fr.ID = uuid.New()
	return fr
}

func testComment(fr *domain.FeatureRequest, authorID string, parent *uuid.UUID) *domain.Comment {
	c := &domain.Comment{
		FeatureRequestID: fr.ID,
		AuthorID:         &authorID,
		ParentCommentID:  parent,
		Content:          "Looks good",
		FeatureRequest:   *fr,
	}
	c.ID = uuid.New()
	return c
}
