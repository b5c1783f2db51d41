package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/repository"
)

// ExportRecipes builds a portable bundle from the user's recipes. IDs that
// do not exist or belong to someone else are skipped.
func (s *Service) ExportRecipes(ctx context.Context, ids []int64, userID int64) (*models.ExportBundle, error) {
	bundle := &models.ExportBundle{
		Version:    models.ExportVersion,
		ExportDate: time.Now().UTC(),
		Recipes:    []models.ExportedRecipe{},
	}

	for _, id := range ids {
		recipe, err := s.GetRecipe(ctx, id, userID)
		if err != nil {
			if errors.Is(err, ErrNotFoundOrForbidden) {
				continue
			}
			return nil, err
		}
		bundle.Recipes = append(bundle.Recipes, exportRecipe(recipe))
	}

	if len(bundle.Recipes) == 0 {
		return nil, validationError("No recipes found to export")
	}

	s.logger.Infof("Exported %d recipes for user %d", len(bundle.Recipes), userID)
	return bundle, nil
}

func exportRecipe(recipe *models.Recipe) models.ExportedRecipe {
	out := models.ExportedRecipe{
		Name:         recipe.Name,
		Servings:     recipe.Servings,
		TimeNeeded:   recipe.TimeNeeded,
		Ingredients:  make([]models.ExportedIngredient, 0, len(recipe.Ingredients)),
		Instructions: make([]string, 0, len(recipe.Instructions)),
	}
	for _, line := range recipe.Ingredients {
		// Lines whose ingredient was deleted have nothing to resolve on import.
		if line.IngredientName == "" {
			continue
		}
		out.Ingredients = append(out.Ingredients, models.ExportedIngredient{
			Name:     line.IngredientName,
			Unit:     line.IngredientUnit,
			Quantity: line.Quantity,
		})
	}
	for _, step := range recipe.Instructions {
		out.Instructions = append(out.Instructions, step.Instruction)
	}
	return out
}

// supportedVersion accepts any 1.x bundle. A missing version is read as 1.0.
func supportedVersion(version string) bool {
	version = strings.TrimSpace(version)
	return version == "" || version == "1" || strings.HasPrefix(version, "1.")
}

// ImportRecipes adds every recipe in the bundle to the user's collection.
// Each recipe is imported in its own transaction; failures are collected and
// do not stop the batch. The call fails only if nothing was imported.
func (s *Service) ImportRecipes(ctx context.Context, bundle *models.ExportBundle, userID int64) (*models.ImportSummary, error) {
	if bundle == nil || len(bundle.Recipes) == 0 {
		return nil, validationError("No recipes found in import file")
	}
	if !supportedVersion(bundle.Version) {
		return nil, validationError("Unsupported export version %q", bundle.Version)
	}

	summary := &models.ImportSummary{}
	var result *multierror.Error

	for i, exported := range bundle.Recipes {
		if err := s.importRecipe(ctx, exported, userID); err != nil {
			label := strings.TrimSpace(exported.Name)
			if label == "" {
				label = fmt.Sprintf("recipe #%d", i+1)
			}
			result = multierror.Append(result, fmt.Errorf("%s: %s", label, Message(err)))
			summary.Failed++
			continue
		}
		summary.Imported++
	}

	if result != nil {
		result.ErrorFormat = func(errs []error) string {
			msgs := make([]string, len(errs))
			for i, err := range errs {
				msgs[i] = err.Error()
			}
			return strings.Join(msgs, "; ")
		}
		for _, err := range result.Errors {
			summary.Errors = append(summary.Errors, err.Error())
		}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"imported": summary.Imported,
		"failed":   summary.Failed,
	}).Info("Imported recipes")

	if summary.Imported == 0 {
		return summary, validationError("No recipes could be imported: %s", result.Error())
	}
	return summary, nil
}

// importRecipe resolves the recipe's ingredients by name and unit, creating
// missing ones, and inserts the recipe in the same transaction.
func (s *Service) importRecipe(ctx context.Context, exported models.ExportedRecipe, userID int64) error {
	for _, ing := range exported.Ingredients {
		if _, _, err := normalizeIngredient(ing.Name, ing.Unit); err != nil {
			return err
		}
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ingredients := s.Ingredients.WithTx(tx)

		in := models.RecipeInput{
			Name:         exported.Name,
			Servings:     exported.Servings,
			TimeNeeded:   exported.TimeNeeded,
			Ingredients:  make([]models.RecipeIngredientInput, 0, len(exported.Ingredients)),
			Instructions: append([]string(nil), exported.Instructions...),
		}

		for _, ing := range exported.Ingredients {
			name, unit := strings.TrimSpace(ing.Name), strings.TrimSpace(ing.Unit)

			ingredient, err := resolveIngredient(ctx, ingredients, userID, name, unit)
			if err != nil {
				return err
			}

			in.Ingredients = append(in.Ingredients, models.RecipeIngredientInput{
				IngredientID: ingredient.ID,
				Quantity:     ing.Quantity,
			})
		}

		if err := normalizeRecipeInput(&in); err != nil {
			return err
		}
		_, err := s.createRecipe(ctx, tx, &in, userID)
		return err
	})
	if err != nil {
		return asServiceError(err, "Failed to import recipe")
	}
	return nil
}

// resolveIngredient finds the user's ingredient by name and unit, ignoring
// case, and creates it when missing.
func resolveIngredient(ctx context.Context, repo repository.IngredientRepository, userID int64, name, unit string) (*models.Ingredient, error) {
	existing, err := repo.FindByNameAndUnit(ctx, userID, name, unit)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return repo.Create(ctx, &models.Ingredient{
		Name:   name,
		Unit:   unit,
		UserID: userID,
	})
}
