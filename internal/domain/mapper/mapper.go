package mapper

import (
	"fmt"
	"reflect"

	"github.com/athebyme/wbcard-sync/internal/domain/models"
)

// Payload — плоский объект запроса обновления карточки:
// ключ поля маркетплейса → значение (скаляр, массив или вложенный объект)
type Payload map[string]interface{}

// PropertyMapper описывает одно поле карточки маркетплейса и способ
// получить его значение из канонической карточки. Реализации не имеют
// состояния и безопасны для одновременного использования из разных циклов.
type PropertyMapper interface {
	// Key возвращает ключ поля (индекс в объекте запроса)
	Key() string

	// Priority — порядок обхода (чем меньше число, тем раньше значение в итерации)
	Priority() int

	// Required — обязательный для заполнения
	Required() bool

	// Default возвращает значение по умолчанию
	Default() interface{}

	// Choices возвращает массив допустимых значений
	Choices() []string

	// IsSetting — отобразить для заполнения в общих настройках
	IsSetting() bool

	// Matches проверяет, относится ли ключ к данному мапперу
	Matches(key string) bool

	// Extract возвращает значение поля из карточки
	Extract(record *models.CardRecord) interface{}
}

// MappingError сигнализирует, что обязательное поле не получило
// допустимого значения; маппинг карточки прерывается целиком
type MappingError struct {
	Key string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("маппер %q: нет допустимого значения", e.Key)
}

// CardMapper обходит реестр мапперов по приоритету и собирает объект
// запроса. Частичный результат для обязательного поля невозможен:
// первый же отказ прерывает маппинг.
type CardMapper struct {
	registry *Registry
}

// NewCardMapper создает оркестратор поверх реестра
func NewCardMapper(registry *Registry) *CardMapper {
	return &CardMapper{registry: registry}
}

// Map собирает объект запроса из канонической карточки.
// Для обязательного маппера пустой результат закрывается значением по
// умолчанию; если и оно пусто или не входит в допустимый набор —
// возвращается *MappingError с ключом поля.
func (m *CardMapper) Map(record *models.CardRecord) (Payload, error) {
	mappers := m.registry.OrderedByPriority()
	payload := make(Payload, len(mappers))

	for _, pm := range mappers {
		value := pm.Extract(record)

		if absent(value) && pm.Required() {
			value = pm.Default()
		}

		if !absent(value) && !allowed(pm.Choices(), value) {
			// Нарушение допустимого набора равнозначно пустому результату
			value = nil
			if pm.Required() {
				if def := pm.Default(); allowed(pm.Choices(), def) {
					value = def
				}
			}
		}

		if absent(value) {
			if pm.Required() {
				return nil, &MappingError{Key: pm.Key()}
			}
			continue
		}

		payload[pm.Key()] = value
	}

	return payload, nil
}

// absent сообщает, что значение пусто: nil, пустая строка либо
// нулевой указатель, срез или карта
func absent(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	default:
		return false
	}
}

// allowed проверяет принадлежность значения закрытому набору.
// Набор определен только для строковых полей.
func allowed(choices []string, value interface{}) bool {
	if len(choices) == 0 {
		return true
	}
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, choice := range choices {
		if choice == s {
			return true
		}
	}
	return false
}
