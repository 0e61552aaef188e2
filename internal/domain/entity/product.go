package entity

import (
	"strings"
	"time"
	"unicode"
)

// Product — идентичность перепродаваемого товара. UPC, если он есть,
// является первичным ключом матчинга; без него работает name/brand+model.
type Product struct {
	UPC       string    `json:"upc,omitempty"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand,omitempty"`
	Model     string    `json:"model,omitempty"`
	Category  string    `json:"category,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identified сообщает, достаточно ли атрибутов для существования продукта.
func (p Product) Identified() bool {
	return p.UPC != "" || p.Name != ""
}

// Key — канонический ключ хранения. UPC авторитетен; без него ключ
// выводится из нормализованных brand+model, затем name. Наблюдения
// привязываются к продукту по этому ключу, а не по UPC: продукт без
// UPC — обычное дело для запросов по имени.
func (p Product) Key() string {
	if p.UPC != "" {
		return p.UPC
	}

	basis := p.Brand + " " + p.Model
	if p.Brand == "" || p.Model == "" {
		basis = p.Name
	}

	return slugify(basis)
}

func slugify(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)

	return strings.Join(strings.Fields(cleaned), "-")
}
