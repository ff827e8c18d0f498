package cache

import "github.com/google/uuid"

// Tag vocabulary shared by read views and the invalidation fan-out
const (
	prefixBoardDetails    = "board-details:"
	prefixFeatureRequests = "feature-requests:"
	prefixUserBoards      = "user-boards:"
	prefixComments        = "comments:"
	prefixDashboardStats  = "dashboard-stats:"
	prefixPath            = "path:"
)

func BoardDetailsTag(slug string) string {
	return prefixBoardDetails + slug
}

func FeatureRequestsTag(slug string) string {
	return prefixFeatureRequests + slug
}

func UserBoardsTag(userID string) string {
	return prefixUserBoards + userID
}

func CommentsTag(featureRequestID uuid.UUID) string {
	return prefixComments + featureRequestID.String()
}

func DashboardStatsTag(userID string) string {
	return prefixDashboardStats + userID
}

// PathTag is attached to every view rendered for path, so a path
// invalidation drops all of its variants
func PathTag(path string) string {
	return prefixPath + path
}

// Paths of the cached read views, relative to the API base path
func BoardPath(slug string) string {
	return "/boards/" + slug
}

func BoardRequestsPath(slug string) string {
	return "/boards/" + slug + "/requests"
}

func BoardFeedPath(slug string) string {
	return "/boards/" + slug + "/feed.rss"
}

func FeatureRequestPath(id uuid.UUID) string {
	return "/requests/" + id.String()
}

func CommentsPath(featureRequestID uuid.UUID) string {
	return "/requests/" + featureRequestID.String() + "/comments"
}

func UserBoardsPath(userID string) string {
	return "/users/" + userID + "/boards"
}

func DashboardStatsPath(userID string) string {
	return "/dashboard/" + userID + "/stats"
}
