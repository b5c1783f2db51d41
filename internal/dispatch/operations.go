package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/service"
)

// bind decodes the JSON arguments into T before calling fn. Empty and null
// arguments leave T at its zero value.
func bind[T any](fn func(ctx context.Context, user *models.User, in T) (any, error)) HandlerFunc {
	return func(ctx context.Context, user *models.User, args json.RawMessage) (any, error) {
		var in T
		trimmed := bytes.TrimSpace(args)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, &in); err != nil {
				return nil, invalidArguments(err.Error())
			}
		}
		return fn(ctx, user, in)
	}
}

func invalidArguments(detail string) error {
	return service.NewError(service.ErrValidation, "Invalid arguments: "+detail)
}

type noArgs struct{}

type credentialsArgs struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type idArgs struct {
	ID int64 `json:"id"`
}

func (a idArgs) validate() error {
	if a.ID <= 0 {
		return invalidArguments("id is required")
	}
	return nil
}

type ingredientArgs struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type recipeUpdateArgs struct {
	ID int64 `json:"id"`
	models.RecipeInput
}

type exportArgs struct {
	IDs []int64 `json:"ids"`
}

type itemsArgs struct {
	Items []models.ShoppingListItemInput `json:"items"`
}

type recipeIDsArgs struct {
	RecipeIDs []int64 `json:"recipeIds"`
}

type itemUpdateArgs struct {
	ID       int64  `json:"id"`
	Quantity string `json:"quantity"`
}

type queryArgs struct {
	Query string `json:"query"`
}

func (d *Dispatcher) registerOperations() {
	// Auth
	d.register("auth.register", operation{public: true, message: "Registration successful", handler: bind(d.registerUser)})
	d.register("auth.login", operation{public: true, message: "Login successful", handler: bind(d.login)})
	d.register("auth.logout", operation{public: true, message: "Logged out successfully", handler: bind(d.logout)})
	d.register("auth.getCurrentUser", operation{public: true, message: "Current user retrieved", handler: bind(d.currentUser)})

	// Ingredients
	d.register("ingredients.add", operation{message: "Ingredient added successfully", handler: bind(d.addIngredient)})
	d.register("ingredients.getAll", operation{message: "Ingredients retrieved successfully", handler: bind(d.listIngredients)})
	d.register("ingredients.update", operation{message: "Ingredient updated successfully", handler: bind(d.updateIngredient)})
	d.register("ingredients.delete", operation{message: "Ingredient deleted successfully", handler: bind(d.deleteIngredient)})

	// Recipes
	d.register("recipes.add", operation{message: "Recipe added successfully", handler: bind(d.addRecipe)})
	d.register("recipes.getAll", operation{message: "Recipes retrieved successfully", handler: bind(d.listRecipes)})
	d.register("recipes.getById", operation{message: "Recipe retrieved successfully", handler: bind(d.getRecipe)})
	d.register("recipes.update", operation{message: "Recipe updated successfully", handler: bind(d.updateRecipe)})
	d.register("recipes.delete", operation{message: "Recipe deleted successfully", handler: bind(d.deleteRecipe)})
	d.register("recipes.export", operation{message: "Recipes exported successfully", handler: bind(d.exportRecipes)})
	d.register("recipes.import", operation{message: "Recipes imported successfully", handler: bind(d.importRecipes)})

	// Shopping list
	d.register("shoppingList.addItems", operation{message: "Items added to shopping list", handler: bind(d.addShoppingItems)})
	d.register("shoppingList.addRecipes", operation{message: "Recipe ingredients added to shopping list", handler: bind(d.addRecipesToShoppingList)})
	d.register("shoppingList.getAll", operation{message: "Shopping list retrieved successfully", handler: bind(d.listShoppingItems)})
	d.register("shoppingList.update", operation{message: "Shopping list item updated", handler: bind(d.updateShoppingItem)})
	d.register("shoppingList.delete", operation{message: "Shopping list item deleted", handler: bind(d.deleteShoppingItem)})
	d.register("shoppingList.clear", operation{message: "Shopping list cleared", handler: bind(d.clearShoppingList)})
	d.register("shoppingList.exportText", operation{message: "Shopping list exported", handler: bind(d.shoppingListText)})

	// Dev tools
	d.register("devtools.isDev", operation{public: true, message: "Development mode status", handler: bind(d.isDev)})
	d.register("devtools.wipeDatabase", operation{devOnly: true, message: "Database wiped successfully", handler: bind(d.wipeDatabase)})
	d.register("devtools.getDatabaseStats", operation{devOnly: true, message: "Database stats retrieved", handler: bind(d.databaseStats)})
	d.register("devtools.seedDatabase", operation{devOnly: true, message: "Database seeded successfully", handler: bind(d.seedDatabase)})
	d.register("devtools.exportDatabase", operation{devOnly: true, message: "Database exported successfully", handler: bind(d.exportDatabase)})
	d.register("devtools.executeQuery", operation{devOnly: true, message: "Query executed successfully", handler: bind(d.executeQuery)})
}

// Auth

func (d *Dispatcher) registerUser(ctx context.Context, _ *models.User, in credentialsArgs) (any, error) {
	return d.svc.Register(ctx, in.Username, in.Password)
}

func (d *Dispatcher) login(ctx context.Context, _ *models.User, in credentialsArgs) (any, error) {
	return d.svc.Login(ctx, in.Username, in.Password)
}

func (d *Dispatcher) logout(ctx context.Context, _ *models.User, _ noArgs) (any, error) {
	return nil, d.svc.Logout(ctx)
}

func (d *Dispatcher) currentUser(ctx context.Context, _ *models.User, _ noArgs) (any, error) {
	return d.svc.CurrentUser(ctx), nil
}

// Ingredients

func (d *Dispatcher) addIngredient(ctx context.Context, user *models.User, in ingredientArgs) (any, error) {
	return d.svc.AddIngredient(ctx, in.Name, in.Unit, user.ID)
}

func (d *Dispatcher) listIngredients(ctx context.Context, user *models.User, _ noArgs) (any, error) {
	return d.svc.ListIngredients(ctx, user.ID)
}

func (d *Dispatcher) updateIngredient(ctx context.Context, user *models.User, in ingredientArgs) (any, error) {
	if err := (idArgs{ID: in.ID}).validate(); err != nil {
		return nil, err
	}
	return d.svc.UpdateIngredient(ctx, in.ID, in.Name, in.Unit, user.ID)
}

func (d *Dispatcher) deleteIngredient(ctx context.Context, user *models.User, in idArgs) (any, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return nil, d.svc.DeleteIngredient(ctx, in.ID, user.ID)
}

// Recipes

func (d *Dispatcher) addRecipe(ctx context.Context, user *models.User, in models.RecipeInput) (any, error) {
	return d.svc.AddRecipe(ctx, in, user.ID)
}

func (d *Dispatcher) listRecipes(ctx context.Context, user *models.User, _ noArgs) (any, error) {
	return d.svc.ListRecipes(ctx, user.ID)
}

func (d *Dispatcher) getRecipe(ctx context.Context, user *models.User, in idArgs) (any, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return d.svc.GetRecipe(ctx, in.ID, user.ID)
}

func (d *Dispatcher) updateRecipe(ctx context.Context, user *models.User, in recipeUpdateArgs) (any, error) {
	if err := (idArgs{ID: in.ID}).validate(); err != nil {
		return nil, err
	}
	return d.svc.UpdateRecipe(ctx, in.ID, in.RecipeInput, user.ID)
}

func (d *Dispatcher) deleteRecipe(ctx context.Context, user *models.User, in idArgs) (any, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return nil, d.svc.DeleteRecipe(ctx, in.ID, user.ID)
}

func (d *Dispatcher) exportRecipes(ctx context.Context, user *models.User, in exportArgs) (any, error) {
	return d.svc.ExportRecipes(ctx, in.IDs, user.ID)
}

func (d *Dispatcher) importRecipes(ctx context.Context, user *models.User, in models.ExportBundle) (any, error) {
	return d.svc.ImportRecipes(ctx, &in, user.ID)
}

// Shopping list

func (d *Dispatcher) addShoppingItems(ctx context.Context, user *models.User, in itemsArgs) (any, error) {
	return d.svc.AddShoppingItems(ctx, in.Items, user.ID)
}

func (d *Dispatcher) addRecipesToShoppingList(ctx context.Context, user *models.User, in recipeIDsArgs) (any, error) {
	if len(in.RecipeIDs) == 0 {
		return nil, invalidArguments("recipeIds is required")
	}
	return d.svc.AddRecipesToShoppingList(ctx, in.RecipeIDs, user.ID)
}

func (d *Dispatcher) listShoppingItems(ctx context.Context, user *models.User, _ noArgs) (any, error) {
	return d.svc.ListShoppingItems(ctx, user.ID)
}

func (d *Dispatcher) updateShoppingItem(ctx context.Context, user *models.User, in itemUpdateArgs) (any, error) {
	if err := (idArgs{ID: in.ID}).validate(); err != nil {
		return nil, err
	}
	return d.svc.UpdateShoppingItem(ctx, in.ID, in.Quantity, user.ID)
}

func (d *Dispatcher) deleteShoppingItem(ctx context.Context, user *models.User, in idArgs) (any, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return nil, d.svc.DeleteShoppingItem(ctx, in.ID, user.ID)
}

func (d *Dispatcher) clearShoppingList(ctx context.Context, user *models.User, _ noArgs) (any, error) {
	n, err := d.svc.ClearShoppingList(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return map[string]int64{"removed": n}, nil
}

func (d *Dispatcher) shoppingListText(ctx context.Context, user *models.User, _ noArgs) (any, error) {
	return d.svc.ShoppingListText(ctx, user.ID)
}

// Dev tools

func (d *Dispatcher) isDev(_ context.Context, _ *models.User, _ noArgs) (any, error) {
	return d.dev, nil
}

func (d *Dispatcher) wipeDatabase(ctx context.Context, user *models.User, _ noArgs) (any, error) {
	d.logger.Warnf("Database wipe requested by user %d", user.ID)
	return nil, d.svc.WipeDatabase(ctx)
}

func (d *Dispatcher) databaseStats(ctx context.Context, _ *models.User, _ noArgs) (any, error) {
	return d.svc.DatabaseStats(ctx)
}

func (d *Dispatcher) seedDatabase(ctx context.Context, user *models.User, _ noArgs) (any, error) {
	return d.svc.SeedDatabase(ctx, user.ID)
}

func (d *Dispatcher) exportDatabase(ctx context.Context, _ *models.User, _ noArgs) (any, error) {
	dump, err := d.svc.ExportDatabase(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"exportDate": time.Now().UTC(),
		"tables":     dump,
	}, nil
}

func (d *Dispatcher) executeQuery(ctx context.Context, _ *models.User, in queryArgs) (any, error) {
	return d.svc.ExecuteQuery(ctx, in.Query)
}
