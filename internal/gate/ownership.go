package gate

import (
	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/lookup"
	"feedback-board-api/internal/policy"
)

// Ownership tells the gate which resource a route acts on and who may act on it.
// Param names the route parameter holding the slug or id.
type Ownership struct {
	Kind  lookup.Kind
	Param string
	Allow func(actorID string, resource interface{}) bool
}

// BoardOwner admits only the board's creator
func BoardOwner(param string) *Ownership {
	return &Ownership{
		Kind:  lookup.KindBoard,
		Param: param,
		Allow: func(actorID string, resource interface{}) bool {
			b, ok := resource.(*domain.Board)
			return ok && policy.IsBoardOwner(actorID, b.CreatorID)
		},
	}
}

// BoardContributor admits anyone who can see the board
func BoardContributor(param string) *Ownership {
	return &Ownership{
		Kind:  lookup.KindBoard,
		Param: param,
		Allow: func(actorID string, resource interface{}) bool {
			b, ok := resource.(*domain.Board)
			return ok && policy.CanContribute(actorID, b)
		},
	}
}

// FeatureRequestModifier admits the submitter and the board owner
func FeatureRequestModifier(param string) *Ownership {
	return &Ownership{
		Kind:  lookup.KindFeatureRequest,
		Param: param,
		Allow: func(actorID string, resource interface{}) bool {
			fr, ok := resource.(*domain.FeatureRequest)
			return ok && policy.CanModifyFeatureRequest(actorID, fr)
		},
	}
}

// FeatureRequestBoardOwner admits only the owner of the request's board
func FeatureRequestBoardOwner(param string) *Ownership {
	return &Ownership{
		Kind:  lookup.KindFeatureRequest,
		Param: param,
		Allow: func(actorID string, resource interface{}) bool {
			fr, ok := resource.(*domain.FeatureRequest)
			return ok && policy.CanChangeStatus(actorID, fr)
		},
	}
}

// FeatureRequestContributor admits anyone who can see the request's board
func FeatureRequestContributor(param string) *Ownership {
	return &Ownership{
		Kind:  lookup.KindFeatureRequest,
		Param: param,
		Allow: func(actorID string, resource interface{}) bool {
			fr, ok := resource.(*domain.FeatureRequest)
			return ok && policy.CanContribute(actorID, &fr.Board)
		},
	}
}

// CommentModifier admits the author and the owner of the board above the comment
func CommentModifier(param string) *Ownership {
	return &Ownership{
		Kind:  lookup.KindComment,
		Param: param,
		Allow: func(actorID string, resource interface{}) bool {
			cm, ok := resource.(*domain.Comment)
			return ok && policy.CanModifyComment(actorID, cm)
		},
	}
}
