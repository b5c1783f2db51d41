package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := mustRegister(t, svc, "alice")

	_, err := svc.AddIngredient(ctx, "   ", "cup", user.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddIngredient(ctx, "Flour", "", user.ID)
	assert.ErrorIs(t, err, ErrValidation)

	flour, err := svc.AddIngredient(ctx, "  Flour ", " cup ", user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flour", flour.Name)
	assert.Equal(t, "cup", flour.Unit)
	assert.Equal(t, user.ID, flour.UserID)

	_, err = svc.UpdateIngredient(ctx, flour.ID, "", "cup", user.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListIngredientsNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := mustRegister(t, svc, "alice")

	mustIngredient(t, svc, user.ID, "Flour", "cup")
	mustIngredient(t, svc, user.ID, "Sugar", "cup")
	mustIngredient(t, svc, user.ID, "Salt", "tsp")

	list, err := svc.ListIngredients(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Salt", list[0].Name)
	assert.Equal(t, "Flour", list[2].Name)
}

func TestIngredientOwnershipIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")

	flour := mustIngredient(t, svc, alice.ID, "Flour", "cup")

	_, err := svc.UpdateIngredient(ctx, flour.ID, "Stolen", "cup", bob.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	err = svc.DeleteIngredient(ctx, flour.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	// Same message for missing and foreign rows.
	_, missing := svc.UpdateIngredient(ctx, 9999, "X", "cup", bob.ID)
	_, foreign := svc.UpdateIngredient(ctx, flour.ID, "X", "cup", bob.ID)
	assert.Equal(t, Message(missing), Message(foreign))

	bobs, err := svc.ListIngredients(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	updated, err := svc.UpdateIngredient(ctx, flour.ID, "Whole Wheat Flour", "cup", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Whole Wheat Flour", updated.Name)
}

func TestDeleteIngredientLeavesRecipeLines(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := mustRegister(t, svc, "alice")

	flour := mustIngredient(t, svc, user.ID, "Flour", "cup")
	sugar := mustIngredient(t, svc, user.ID, "Sugar", "cup")
	recipe, err := svc.AddRecipe(ctx, pancakesInput(flour.ID, sugar.ID), user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteIngredient(ctx, flour.ID, user.ID))

	got, err := svc.GetRecipe(ctx, recipe.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, flour.ID, got.Ingredients[0].IngredientID)
	assert.Empty(t, got.Ingredients[0].IngredientName)
	assert.Empty(t, got.Ingredients[0].IngredientUnit)
	assert.Equal(t, "Sugar", got.Ingredients[1].IngredientName)
}
