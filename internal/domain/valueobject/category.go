package valueobject

import "github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"

// Category - категория вакансии.
type Category string

const (
	CategoryWaiter    Category = "garcom"
	CategoryBartender Category = "bartender"
	CategoryEvents    Category = "organizacao"
)

var categoryNames = map[Category]string{
	CategoryWaiter:    "Garçom",
	CategoryBartender: "Bartender",
	CategoryEvents:    "Organização de Eventos",
}

// Categories в порядке отображения.
func Categories() []Category {
	return []Category{CategoryWaiter, CategoryBartender, CategoryEvents}
}

func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

func NewCategory(category string) (Category, error) {
	c := Category(category)
	if !c.IsValid() {
		return "", apperror.Newf(apperror.ErrCodeValidation, "categoria inválida: %q", category)
	}
	return c, nil
}
