package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository"
)

const msgRecipeNotFound = "Recipe not found"

// normalizeRecipeInput trims text fields in place and validates the result.
func normalizeRecipeInput(in *models.RecipeInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return validationError("Recipe name is required")
	}
	if in.Servings <= 0 {
		return validationError("Servings must be greater than 0")
	}
	if in.TimeNeeded <= 0 {
		return validationError("Time needed must be greater than 0")
	}
	if len(in.Ingredients) == 0 {
		return validationError("At least one ingredient is required")
	}
	if len(in.Instructions) == 0 {
		return validationError("At least one instruction is required")
	}

	for i := range in.Ingredients {
		line := &in.Ingredients[i]
		if line.IngredientID <= 0 {
			return validationError("All ingredients must be selected")
		}
		line.Quantity = strings.TrimSpace(line.Quantity)
		if line.Quantity == "" {
			return validationError("Quantity cannot be empty")
		}
	}

	for i, step := range in.Instructions {
		step = strings.TrimSpace(step)
		if step == "" {
			return validationError("Instruction %d cannot be empty", i+1)
		}
		in.Instructions[i] = step
	}

	return nil
}

// checkIngredientsOwned makes sure every line references an ingredient in
// the user's catalog.
func checkIngredientsOwned(ctx context.Context, repo repository.IngredientRepository, in *models.RecipeInput, userID int64) error {
	seen := make(map[int64]bool, len(in.Ingredients))
	for _, line := range in.Ingredients {
		if seen[line.IngredientID] {
			continue
		}
		seen[line.IngredientID] = true

		ingredient, err := repo.GetByID(ctx, line.IngredientID, userID)
		if err != nil {
			return err
		}
		if ingredient == nil {
			return validationError("Ingredient %d not found", line.IngredientID)
		}
	}
	return nil
}

// writeRecipeChildren inserts lines in input order and numbers steps from 1.
func writeRecipeChildren(ctx context.Context, repo repository.RecipeRepository, recipeID int64, in *models.RecipeInput) error {
	for _, line := range in.Ingredients {
		if _, err := repo.AddIngredient(ctx, &models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
		}); err != nil {
			return err
		}
	}

	for i, step := range in.Instructions {
		if _, err := repo.AddInstruction(ctx, &models.RecipeInstruction{
			RecipeID:    recipeID,
			StepNumber:  i + 1,
			Instruction: step,
		}); err != nil {
			return err
		}
	}

	return nil
}

// createRecipe inserts an already normalized recipe inside tx
func (s *Service) createRecipe(ctx context.Context, tx *sql.Tx, in *models.RecipeInput, userID int64) (int64, error) {
	if err := checkIngredientsOwned(ctx, s.Ingredients.WithTx(tx), in, userID); err != nil {
		return 0, err
	}

	recipes := s.Recipes.WithTx(tx)
	recipe, err := recipes.Create(ctx, &models.Recipe{
		Name:       in.Name,
		Servings:   in.Servings,
		TimeNeeded: in.TimeNeeded,
		UserID:     userID,
	})
	if err != nil {
		return 0, err
	}

	if err := writeRecipeChildren(ctx, recipes, recipe.ID, in); err != nil {
		return 0, err
	}
	return recipe.ID, nil
}

// AddRecipe creates a recipe with its lines and steps in one transaction
func (s *Service) AddRecipe(ctx context.Context, in models.RecipeInput, userID int64) (*models.Recipe, error) {
	if err := normalizeRecipeInput(&in); err != nil {
		return nil, err
	}

	var recipeID int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		id, err := s.createRecipe(ctx, tx, &in, userID)
		recipeID = id
		return err
	})
	if err != nil {
		return nil, asServiceError(err, "Failed to add recipe")
	}

	s.logger.Debugf("Created recipe %d for user %d", recipeID, userID)
	return s.GetRecipe(ctx, recipeID, userID)
}

// GetRecipe loads a recipe with its lines and ordered steps
func (s *Service) GetRecipe(ctx context.Context, id, userID int64) (*models.Recipe, error) {
	recipe, err := s.Recipes.GetByID(ctx, id, userID)
	if err != nil {
		return nil, storageError("Failed to get recipe", err)
	}
	if recipe == nil {
		return nil, notFoundError(msgRecipeNotFound)
	}

	recipe.Ingredients, err = s.Recipes.GetIngredients(ctx, id)
	if err != nil {
		return nil, storageError("Failed to get recipe", err)
	}

	recipe.Instructions, err = s.Recipes.GetInstructions(ctx, id)
	if err != nil {
		return nil, storageError("Failed to get recipe", err)
	}

	return recipe, nil
}

// ListRecipes returns recipe summaries, newest first
func (s *Service) ListRecipes(ctx context.Context, userID int64) ([]*models.Recipe, error) {
	recipes, err := s.Recipes.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("Failed to get recipes", err)
	}
	return recipes, nil
}

// UpdateRecipe replaces a recipe's fields, lines and steps in one transaction
func (s *Service) UpdateRecipe(ctx context.Context, id int64, in models.RecipeInput, userID int64) (*models.Recipe, error) {
	if err := normalizeRecipeInput(&in); err != nil {
		return nil, err
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		recipes := s.Recipes.WithTx(tx)

		if _, err := recipes.Update(ctx, &models.Recipe{
			ID:         id,
			Name:       in.Name,
			Servings:   in.Servings,
			TimeNeeded: in.TimeNeeded,
			UserID:     userID,
		}); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundError(msgRecipeNotFound)
			}
			return err
		}

		if err := checkIngredientsOwned(ctx, s.Ingredients.WithTx(tx), &in, userID); err != nil {
			return err
		}
		if err := recipes.DeleteIngredients(ctx, id); err != nil {
			return err
		}
		if err := recipes.DeleteInstructions(ctx, id); err != nil {
			return err
		}
		return writeRecipeChildren(ctx, recipes, id, &in)
	})
	if err != nil {
		return nil, asServiceError(err, "Failed to update recipe")
	}

	return s.GetRecipe(ctx, id, userID)
}

// DeleteRecipe removes a recipe; its lines and steps go with it
func (s *Service) DeleteRecipe(ctx context.Context, id, userID int64) error {
	if err := s.Recipes.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgRecipeNotFound)
		}
		return storageError("Failed to delete recipe", err)
	}
	return nil
}
