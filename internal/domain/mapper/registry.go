package mapper

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateMapperKey — два маппера претендуют на один ключ поля.
// Ошибка конфигурации: процесс не должен обслуживать циклы.
var ErrDuplicateMapperKey = errors.New("маппер с таким ключом уже зарегистрирован")

// Registry — реестр мапперов полей карточки. Собирается один раз на
// старте процесса и после этого только читается, поэтому безопасен для
// одновременного доступа из параллельных циклов.
type Registry struct {
	ordered []PropertyMapper
	byKey   map[string]PropertyMapper
}

// NewRegistry создает реестр из набора мапперов. Новые поля
// маркетплейса добавляются регистрацией нового маппера, а не правкой
// центрального диспетчера.
func NewRegistry(mappers ...PropertyMapper) (*Registry, error) {
	r := &Registry{byKey: make(map[string]PropertyMapper, len(mappers))}

	for _, m := range mappers {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register добавляет маппер в реестр. Конфликт ключей обнаруживается
// здесь, на старте, а не при использовании.
func (r *Registry) Register(m PropertyMapper) error {
	key := m.Key()
	if _, ok := r.byKey[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMapperKey, key)
	}

	r.byKey[key] = m
	r.ordered = append(r.ordered, m)

	// Стабильная сортировка сохраняет порядок регистрации при равных приоритетах
	sort.SliceStable(r.ordered, func(i, j int) bool {
		return r.ordered[i].Priority() < r.ordered[j].Priority()
	})

	return nil
}

// Lookup возвращает маппер, которому принадлежит ключ
func (r *Registry) Lookup(key string) (PropertyMapper, bool) {
	if m, ok := r.byKey[key]; ok {
		return m, true
	}
	// Ключ может принадлежать мапперу с нестрогим соответствием
	for _, m := range r.ordered {
		if m.Matches(key) {
			return m, true
		}
	}
	return nil, false
}

// OrderedByPriority возвращает мапперы по возрастанию приоритета.
// Срез принадлежит реестру и не должен изменяться вызывающим.
func (r *Registry) OrderedByPriority() []PropertyMapper {
	return r.ordered
}

// Len возвращает число зарегистрированных мапперов
func (r *Registry) Len() int {
	return len(r.ordered)
}
