package mongodb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
)

func TestVisibilityFilter(t *testing.T) {
	t.Run("admin scope is unfiltered", func(t *testing.T) {
		filter := VisibilityFilter(identity.Scope{Admin: true})
		assert.Equal(t, bson.M{}, filter)
	})

	t.Run("empty scope matches nothing", func(t *testing.T) {
		filter := VisibilityFilter(identity.Scope{})
		assert.Equal(t, bson.M{"_id": bson.M{"$exists": false}}, filter)
	})

	t.Run("user id only", func(t *testing.T) {
		filter := VisibilityFilter(identity.Scope{UserID: "u1"})
		assert.Equal(t, bson.M{"createdByUserId": "u1"}, filter)
	})

	t.Run("email only", func(t *testing.T) {
		filter := VisibilityFilter(identity.Scope{Email: "user@example.com"})
		assert.Equal(t, bson.M{"createdByEmail": "user@example.com"}, filter)
	})

	t.Run("both clauses joined with or", func(t *testing.T) {
		filter := VisibilityFilter(identity.Scope{UserID: "u1", Email: "user@example.com"})

		clauses, ok := filter["$or"].([]bson.M)
		require.True(t, ok)
		require.Len(t, clauses, 2)
		assert.Contains(t, clauses, bson.M{"createdByUserId": "u1"})
		assert.Contains(t, clauses, bson.M{"createdByEmail": "user@example.com"})
	})
}

func TestPrefixPattern(t *testing.T) {
	t.Run("anchors at the start and ignores case", func(t *testing.T) {
		pattern := PrefixPattern("exs-240101")
		assert.Equal(t, "^EXS-240101", pattern.Pattern)
		assert.Equal(t, "i", pattern.Options)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		pattern := PrefixPattern("  EX26  ")
		assert.Equal(t, "^EX26", pattern.Pattern)
	})

	t.Run("escapes regex metacharacters", func(t *testing.T) {
		pattern := PrefixPattern(".*+?()[]{}|^$")
		assert.True(t, strings.HasPrefix(pattern.Pattern, "^"))
		assert.Contains(t, pattern.Pattern, "\\.")
		assert.Contains(t, pattern.Pattern, "\\*")
		assert.Contains(t, pattern.Pattern, "\\^")
		assert.Contains(t, pattern.Pattern, "\\$")
	})
}
