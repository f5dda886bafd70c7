package matrix_service

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
)

// NewCollator создает локале-зависимый компаратор строк для сортировки имен
func NewCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return collate.New(tag)
}

func sortKey(person domain.Person, field domain.SortField) string {
	switch field {
	case domain.SortFieldFirstName:
		return person.FirstName
	case domain.SortFieldLastName:
		return person.LastName
	case domain.SortFieldNamePrefix:
		return person.NamePrefix
	default:
		return ""
	}
}

// SortPersons возвращает копию списка, отсортированную по состоянию
// сортировки. Без активной сортировки сохраняется исходный порядок,
// равные ключи стабильны
func SortPersons(persons []domain.Person, state domain.SortState, collator *collate.Collator) []domain.Person {
	sorted := make([]domain.Person, len(persons))
	copy(sorted, persons)

	if state.Field == domain.SortFieldNone || state.Direction == domain.SortDirectionNone {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := collator.CompareString(sortKey(sorted[i], state.Field), sortKey(sorted[j], state.Field))
		if state.Direction == domain.SortDirectionDesc {
			return cmp > 0
		}
		return cmp < 0
	})

	return sorted
}
