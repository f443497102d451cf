package mapper

import (
	"encoding/json"
	"testing"

	"github.com/athebyme/wbcard-sync/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constValue(v interface{}) func(*models.CardRecord) interface{} {
	return func(*models.CardRecord) interface{} { return v }
}

func mustMapper(t *testing.T, mappers ...PropertyMapper) *CardMapper {
	t.Helper()
	r, err := NewRegistry(mappers...)
	require.NoError(t, err)
	return NewCardMapper(r)
}

func TestMap_CollectsValues(t *testing.T) {
	m := mustMapper(t,
		stubMapper{key: "title", priority: 100, required: true, extract: constValue("Футболка")},
		stubMapper{key: "brand", priority: 200, required: true, extract: constValue("Acme")},
	)

	payload, err := m.Map(&models.CardRecord{})

	require.NoError(t, err)
	assert.Equal(t, Payload{"title": "Футболка", "brand": "Acme"}, payload)
}

func TestMap_RequiredWithoutValue(t *testing.T) {
	t.Run("пустой результат без умолчания прерывает маппинг", func(t *testing.T) {
		m := mustMapper(t,
			stubMapper{key: "title", priority: 100, required: true, extract: constValue(nil)},
		)

		payload, err := m.Map(&models.CardRecord{})

		require.Error(t, err)
		assert.Nil(t, payload)

		var mapErr *MappingError
		require.ErrorAs(t, err, &mapErr)
		assert.Equal(t, "title", mapErr.Key)
	})

	t.Run("пустой результат закрывается умолчанием", func(t *testing.T) {
		m := mustMapper(t,
			stubMapper{key: "country", priority: 100, required: true, def: "Россия", extract: constValue(nil)},
		)

		payload, err := m.Map(&models.CardRecord{})

		require.NoError(t, err)
		assert.Equal(t, "Россия", payload["country"])
	})

	t.Run("пустая строка равнозначна отсутствию", func(t *testing.T) {
		m := mustMapper(t,
			stubMapper{key: "title", priority: 100, required: true, extract: constValue("")},
		)

		_, err := m.Map(&models.CardRecord{})

		var mapErr *MappingError
		require.ErrorAs(t, err, &mapErr)
		assert.Equal(t, "title", mapErr.Key)
	})
}

func TestMap_OptionalWithoutValue(t *testing.T) {
	m := mustMapper(t,
		stubMapper{key: "title", priority: 100, required: true, extract: constValue("Футболка")},
		stubMapper{key: "sizes", priority: 200, extract: constValue(nil)},
	)

	payload, err := m.Map(&models.CardRecord{})

	require.NoError(t, err)
	assert.NotContains(t, payload, "sizes", "необязательное поле без значения опускается")
	assert.Contains(t, payload, "title")
}

func TestMap_Choices(t *testing.T) {
	countries := []string{"Россия", "Китай"}

	t.Run("значение вне набора для обязательного поля заменяется умолчанием", func(t *testing.T) {
		m := mustMapper(t,
			stubMapper{
				key: "countryProduction", priority: 100, required: true,
				def: "Россия", choices: countries,
				extract: constValue("Атлантида"),
			},
		)

		payload, err := m.Map(&models.CardRecord{})

		require.NoError(t, err)
		assert.Equal(t, "Россия", payload["countryProduction"])
	})

	t.Run("умолчание вне набора тоже отклоняется", func(t *testing.T) {
		m := mustMapper(t,
			stubMapper{
				key: "countryProduction", priority: 100, required: true,
				def: "Атлантида", choices: countries,
				extract: constValue("Лемурия"),
			},
		)

		_, err := m.Map(&models.CardRecord{})

		var mapErr *MappingError
		require.ErrorAs(t, err, &mapErr)
		assert.Equal(t, "countryProduction", mapErr.Key)
	})

	t.Run("значение вне набора для необязательного поля опускается", func(t *testing.T) {
		m := mustMapper(t,
			stubMapper{
				key: "season", priority: 100,
				choices: []string{"лето", "зима"},
				extract: constValue("межсезонье"),
			},
		)

		payload, err := m.Map(&models.CardRecord{})

		require.NoError(t, err)
		assert.NotContains(t, payload, "season")
	})

	t.Run("значение из набора проходит", func(t *testing.T) {
		m := mustMapper(t,
			stubMapper{
				key: "countryProduction", priority: 100, required: true,
				choices: countries,
				extract: constValue("Китай"),
			},
		)

		payload, err := m.Map(&models.CardRecord{})

		require.NoError(t, err)
		assert.Equal(t, "Китай", payload["countryProduction"])
	})
}

func TestMap_Idempotent(t *testing.T) {
	m := mustMapper(t,
		stubMapper{key: "title", priority: 100, required: true, extract: constValue("Футболка")},
		stubMapper{key: "brand", priority: 200, required: true, extract: constValue("Acme")},
		stubMapper{key: "dimensions", priority: 300, extract: constValue(map[string]int{"length": 30, "width": 20})},
	)
	record := &models.CardRecord{}

	first, err := m.Map(record)
	require.NoError(t, err)
	second, err := m.Map(record)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
}
