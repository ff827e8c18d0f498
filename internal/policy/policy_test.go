package policy

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"feedback-board-api/internal/domain"
)

func strPtr(s string) *string { return &s }

func featureRequest(submitter *string, owner string) *domain.FeatureRequest {
	return &domain.FeatureRequest{
		SubmitterID: submitter,
		Board:       domain.Board{CreatorID: owner},
	}
}

func comment(author *string, owner string) *domain.Comment {
	return &domain.Comment{
		AuthorID: author,
		FeatureRequest: domain.FeatureRequest{
			Board: domain.Board{CreatorID: owner},
		},
	}
}

func TestCanModifyFeatureRequest(t *testing.T) {
	tests := []struct {
		name  string
		actor string
		fr    *domain.FeatureRequest
		want  bool
	}{
		{"submitter", "u1", featureRequest(strPtr("u1"), "owner"), true},
		{"board owner", "owner", featureRequest(strPtr("u1"), "owner"), true},
		{"stranger", "u2", featureRequest(strPtr("u1"), "owner"), false},
		{"anonymous submission, stranger", "u2", featureRequest(nil, "owner"), false},
		{"anonymous submission, owner", "owner", featureRequest(nil, "owner"), true},
		{"empty actor never matches", "", featureRequest(strPtr(""), ""), false},
		{"nil request", "u1", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyFeatureRequest(tt.actor, tt.fr))
		})
	}
}

func TestCanModifyComment(t *testing.T) {
	tests := []struct {
		name  string
		actor string
		c     *domain.Comment
		want  bool
	}{
		{"author", "u1", comment(strPtr("u1"), "owner"), true},
		{"board owner", "owner", comment(strPtr("u1"), "owner"), true},
		{"stranger", "u2", comment(strPtr("u1"), "owner"), false},
		{"deleted author", "u1", comment(nil, "owner"), false},
		{"nil comment", "u1", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyComment(tt.actor, tt.c))
		})
	}
}

func TestCanViewBoard(t *testing.T) {
	public := &domain.Board{CreatorID: "owner", IsPublic: true}
	private := &domain.Board{CreatorID: "owner", IsPublic: false}

	assert.True(t, CanViewBoard("", public))
	assert.True(t, CanViewBoard("u1", public))
	assert.False(t, CanViewBoard("", private))
	assert.False(t, CanViewBoard("u1", private))
	assert.True(t, CanViewBoard("owner", private))

	assert.False(t, CanContribute("", public))
	assert.True(t, CanContribute("u1", public))
	assert.False(t, CanContribute("u1", private))
	assert.True(t, CanContribute("owner", private))
}

func TestCanChangeStatus(t *testing.T) {
	fr := featureRequest(strPtr("submitter"), "owner")
	assert.True(t, CanChangeStatus("owner", fr))
	assert.False(t, CanChangeStatus("submitter", fr))
}

// Ownership predicates are exactly the disjunction of their two identity checks
func TestOwnershipPredicates_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	names := []string{"", "alice", "bob", "carol"}
	ids := gen.IntRange(0, len(names)-1)

	properties.Property("CanModifyFeatureRequest iff submitter or board creator", prop.ForAll(
		func(a, s, o int, anonymous bool) bool {
			actor, submitter, owner := names[a], names[s], names[o]
			var submitterID *string
			if !anonymous {
				submitterID = &submitter
			}
			fr := featureRequest(submitterID, owner)

			expected := actor != "" && ((submitterID != nil && *submitterID == actor) || owner == actor)
			return CanModifyFeatureRequest(actor, fr) == expected
		},
		ids, ids, ids, gen.Bool(),
	))

	properties.Property("CanModifyComment iff author or board creator", prop.ForAll(
		func(a, au, o int, deleted bool) bool {
			actor, author, owner := names[a], names[au], names[o]
			var authorID *string
			if !deleted {
				authorID = &author
			}
			c := comment(authorID, owner)

			expected := actor != "" && ((authorID != nil && *authorID == actor) || owner == actor)
			return CanModifyComment(actor, c) == expected
		},
		ids, ids, ids, gen.Bool(),
	))

	properties.Property("IsBoardOwner is non-empty equality", prop.ForAll(
		func(a, o int) bool {
			actor, owner := names[a], names[o]
			return IsBoardOwner(actor, owner) == (actor != "" && actor == owner)
		},
		ids, ids,
	))

	properties.TestingRun(t)
}
