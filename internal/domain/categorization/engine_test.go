package categorization

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Suggest(t *testing.T) {
	food := uuid.New()
	transport := uuid.New()

	rules := []KeywordRule{
		{ID: uuid.New(), Keyword: "supermarket", CategoryID: food, Priority: 0},
		{ID: uuid.New(), Keyword: "uber", CategoryID: transport, Priority: 0},
	}
	engine := NewEngine(rules)

	t.Run("matches case-insensitively inside the description", func(t *testing.T) {
		s := engine.Suggest("SUPERMARKET LISBOA 042")
		require.NotNil(t, s)
		assert.Equal(t, food, s.CategoryID)
	})

	t.Run("no keyword means no suggestion", func(t *testing.T) {
		assert.Nil(t, engine.Suggest("pharmacy downtown"))
	})

	t.Run("higher priority wins when several keywords hit", func(t *testing.T) {
		priority := uuid.New()
		e := NewEngine([]KeywordRule{
			{ID: uuid.New(), Keyword: "uber", CategoryID: transport, Priority: 0},
			{ID: uuid.New(), Keyword: "uber eats", CategoryID: priority, Priority: 10},
		})

		s := e.Suggest("UBER EATS ORDER 9912")
		require.NotNil(t, s)
		assert.Equal(t, priority, s.CategoryID)
	})

	t.Run("empty engine never suggests", func(t *testing.T) {
		e := NewEngine(nil)
		assert.Nil(t, e.Suggest("anything"))
		assert.Zero(t, e.RuleCount())
	})
}

func TestEngine_SuggestBatch(t *testing.T) {
	food := uuid.New()
	engine := NewEngine([]KeywordRule{
		{ID: uuid.New(), Keyword: "cafe", CategoryID: food},
	})

	out := engine.SuggestBatch([]string{"CAFE CENTRAL", "gym membership", "Cafe do Rio"})

	require.Len(t, out, 3)
	assert.NotNil(t, out[0])
	assert.Nil(t, out[1])
	assert.NotNil(t, out[2])
}

func TestEngine_Rebuild(t *testing.T) {
	food := uuid.New()
	engine := NewEngine(nil)
	assert.Nil(t, engine.Suggest("cafe central"))

	engine.Rebuild([]KeywordRule{{ID: uuid.New(), Keyword: "cafe", CategoryID: food}})

	s := engine.Suggest("cafe central")
	require.NotNil(t, s)
	assert.Equal(t, food, s.CategoryID)
	assert.Equal(t, 1, engine.RuleCount())
}
