package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository"
)

const msgIngredientNotFound = "Ingredient not found"

func normalizeIngredient(name, unit string) (string, string, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	if name == "" {
		return "", "", validationError("Ingredient name is required")
	}
	if unit == "" {
		return "", "", validationError("Ingredient unit is required")
	}
	return name, unit, nil
}

// AddIngredient adds an ingredient to the user's catalog
func (s *Service) AddIngredient(ctx context.Context, name, unit string, userID int64) (*models.Ingredient, error) {
	name, unit, err := normalizeIngredient(name, unit)
	if err != nil {
		return nil, err
	}

	ingredient, err := s.Ingredients.Create(ctx, &models.Ingredient{
		Name:   name,
		Unit:   unit,
		UserID: userID,
	})
	if err != nil {
		return nil, storageError("Failed to add ingredient", err)
	}

	return ingredient, nil
}

// ListIngredients returns the user's ingredients, newest first
func (s *Service) ListIngredients(ctx context.Context, userID int64) ([]*models.Ingredient, error) {
	ingredients, err := s.Ingredients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("Failed to get ingredients", err)
	}
	return ingredients, nil
}

// UpdateIngredient renames an ingredient the user owns
func (s *Service) UpdateIngredient(ctx context.Context, id int64, name, unit string, userID int64) (*models.Ingredient, error) {
	name, unit, err := normalizeIngredient(name, unit)
	if err != nil {
		return nil, err
	}

	ingredient, err := s.Ingredients.Update(ctx, &models.Ingredient{
		ID:     id,
		Name:   name,
		Unit:   unit,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(msgIngredientNotFound)
		}
		return nil, storageError("Failed to update ingredient", err)
	}

	return ingredient, nil
}

// DeleteIngredient removes an ingredient the user owns. Recipe lines that
// reference it are left in place.
func (s *Service) DeleteIngredient(ctx context.Context, id, userID int64) error {
	if err := s.Ingredients.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgIngredientNotFound)
		}
		return storageError("Failed to delete ingredient", err)
	}
	return nil
}
