package categories

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kitchenbook/kitchenbook/internal/model"
)

const (
	categoriesDir  = "categories"
	categoriesFile = "categories.csv"
)

// Service provides in-memory lookup over the category list.
type Service struct {
	cats   []model.Category
	byName map[string]model.Category
}

// NewService creates a Service from a slice of categories.
func NewService(cats []model.Category) *Service {
	byName := make(map[string]model.Category, len(cats))
	for _, c := range cats {
		byName[c.Name] = c
	}
	return &Service{cats: cats, byName: byName}
}

// Load reads categories/categories.csv from a project root.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, categoriesDir, categoriesFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening categories: %w", err)
	}
	defer f.Close()

	cats, err := ReadCategories(f)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	return NewService(cats), nil
}

// All returns all categories.
func (s *Service) All() []model.Category {
	return s.cats
}

// Get returns a category by name.
func (s *Service) Get(name string) (model.Category, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Allows reports whether name is a category for records of kind.
func (s *Service) Allows(name string, kind model.Kind) bool {
	c, ok := s.byName[name]
	return ok && c.Kind == kind
}

// ByKind returns the categories for one kind of record.
func (s *Service) ByKind(kind model.Kind) []model.Category {
	var result []model.Category
	for _, c := range s.cats {
		if c.Kind == kind {
			result = append(result, c)
		}
	}
	return result
}

// DefaultRate returns the usual VAT rate for a category, or fallback when
// the category is unknown.
func (s *Service) DefaultRate(name string, fallback int) int {
	if c, ok := s.byName[name]; ok {
		return c.DefaultRate
	}
	return fallback
}

// Save writes the categories to categories/categories.csv.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, categoriesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating categories dir: %w", err)
	}

	path := filepath.Join(dir, categoriesFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating categories file: %w", err)
	}
	defer f.Close()

	if err := WriteCategories(f, s.cats); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}
