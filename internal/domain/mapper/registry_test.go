package mapper

import (
	"testing"

	"github.com/athebyme/wbcard-sync/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMapper — настраиваемый маппер для тестов реестра и оркестратора
type stubMapper struct {
	key      string
	priority int
	required bool
	def      interface{}
	choices  []string
	setting  bool
	extract  func(*models.CardRecord) interface{}
}

func (s stubMapper) Key() string          { return s.key }
func (s stubMapper) Priority() int        { return s.priority }
func (s stubMapper) Required() bool       { return s.required }
func (s stubMapper) Default() interface{} { return s.def }
func (s stubMapper) Choices() []string    { return s.choices }
func (s stubMapper) IsSetting() bool      { return s.setting }
func (s stubMapper) Matches(key string) bool {
	return key == s.key
}
func (s stubMapper) Extract(record *models.CardRecord) interface{} {
	if s.extract == nil {
		return nil
	}
	return s.extract(record)
}

func TestNewRegistry_DuplicateKey(t *testing.T) {
	_, err := NewRegistry(
		stubMapper{key: "brand", priority: 100},
		stubMapper{key: "brand", priority: 200},
	)

	require.ErrorIs(t, err, ErrDuplicateMapperKey)
	assert.ErrorContains(t, err, "brand")
}

func TestRegistry_OrderedByPriority(t *testing.T) {
	t.Run("возрастание приоритета независимо от порядка регистрации", func(t *testing.T) {
		r, err := NewRegistry(
			stubMapper{key: "c", priority: 300},
			stubMapper{key: "a", priority: 100},
			stubMapper{key: "b", priority: 200},
		)
		require.NoError(t, err)

		var keys []string
		for _, m := range r.OrderedByPriority() {
			keys = append(keys, m.Key())
		}
		assert.Equal(t, []string{"a", "b", "c"}, keys)
	})

	t.Run("равные приоритеты сохраняют порядок регистрации", func(t *testing.T) {
		r, err := NewRegistry(
			stubMapper{key: "first", priority: 100},
			stubMapper{key: "second", priority: 100},
			stubMapper{key: "third", priority: 100},
		)
		require.NoError(t, err)

		var keys []string
		for _, m := range r.OrderedByPriority() {
			keys = append(keys, m.Key())
		}
		assert.Equal(t, []string{"first", "second", "third"}, keys)
	})
}

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry(
		stubMapper{key: "title", priority: 100},
		stubMapper{key: "brand", priority: 200},
	)
	require.NoError(t, err)

	m, ok := r.Lookup("brand")
	require.True(t, ok)
	assert.Equal(t, "brand", m.Key())

	_, ok = r.Lookup("unknown")
	assert.False(t, ok)
}

func TestRegistry_Len(t *testing.T) {
	r, err := NewRegistry(stubMapper{key: "title", priority: 100})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Register(stubMapper{key: "brand", priority: 50}))
	assert.Equal(t, 2, r.Len())
}
