package config

import (
	"catatin/models"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCategories reads the category suggestion lists from a YAML file:
//
//	income: [Salary, Freelance]
//	expense: [Food, Transport]
//
// An empty path yields the built-in lists. A kind missing from the file
// keeps its built-in list.
func LoadCategories(path string) (models.CategorySuggestions, error) {
	categories := models.DefaultCategories
	if path == "" {
		return categories, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return categories, fmt.Errorf("failed to read categories file: %w", err)
	}

	var loaded models.CategorySuggestions
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return categories, fmt.Errorf("failed to parse categories file %s: %w", path, err)
	}

	if len(loaded.Income) > 0 {
		categories.Income = loaded.Income
	}
	if len(loaded.Expense) > 0 {
		categories.Expense = loaded.Expense
	}
	return categories, nil
}
