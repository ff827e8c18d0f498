// Package policy holds the ownership rules. Every function is pure and
// expects fully populated entities: a feature request with its Board, a
// comment with FeatureRequest.Board.
package policy

import "feedback-board-api/internal/domain"

// IsBoardOwner reports whether actorID created the board. An empty actor owns nothing.
func IsBoardOwner(actorID, boardCreatorID string) bool {
	return actorID != "" && actorID == boardCreatorID
}

// CanModifyFeatureRequest allows the submitter or the owner of the enclosing board
func CanModifyFeatureRequest(actorID string, fr *domain.FeatureRequest) bool {
	if fr == nil || actorID == "" {
		return false
	}
	if fr.SubmitterID != nil && *fr.SubmitterID == actorID {
		return true
	}
	return IsBoardOwner(actorID, fr.Board.CreatorID)
}

// CanModifyComment allows the author or the owner of the board the comment lives on
func CanModifyComment(actorID string, c *domain.Comment) bool {
	if c == nil || actorID == "" {
		return false
	}
	if c.AuthorID != nil && *c.AuthorID == actorID {
		return true
	}
	return IsBoardOwner(actorID, c.FeatureRequest.Board.CreatorID)
}

// CanChangeStatus allows only the board owner to move a request through its lifecycle
func CanChangeStatus(actorID string, fr *domain.FeatureRequest) bool {
	if fr == nil {
		return false
	}
	return IsBoardOwner(actorID, fr.Board.CreatorID)
}

// CanViewBoard lets anyone read a public board and only the owner read a private one
func CanViewBoard(actorID string, board *domain.Board) bool {
	if board == nil {
		return false
	}
	return board.IsPublic || IsBoardOwner(actorID, board.CreatorID)
}

// CanContribute decides who may submit, upvote or comment on a board's requests
func CanContribute(actorID string, board *domain.Board) bool {
	if actorID == "" {
		return false
	}
	return CanViewBoard(actorID, board)
}
