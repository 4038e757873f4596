package domain

import "context"

// Remote store collections.
const (
	CollectionRecipes      = "recipes"
	CollectionSavedRecipes = "saved_recipes"
	CollectionShoppingList = "shopping_list"
	CollectionUsers        = "users"
)

// SearchService is the external recipe-search API. It returns an empty
// slice, not an error, when nothing matches.
type SearchService interface {
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
	SearchByCategory(ctx context.Context, category string) ([]RecipeSummary, error)
	Details(ctx context.Context, id string) (*RecipeDetails, error)
}

// DocumentStore is the remote collection store. There are no transactions
// and an Add is not guaranteed to be visible to an immediate read.
// Implementations can be in-memory, PostgreSQL, or a REST document API.
type DocumentStore interface {
	ListAll(ctx context.Context, collection string) ([]Document, error)
	Add(ctx context.Context, collection string, fields map[string]string) (string, error)
	FindWhere(ctx context.Context, collection, field, value string) ([]Document, error)
	Delete(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string) (*Document, error)
}

// IdentityProvider supplies the active user. Credential issuance happens
// elsewhere; CurrentUserID returns ErrNotAuthenticated when nobody is signed in.
type IdentityProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
}

// Notifier delivers transient messages to the user. Implementations can
// write to the terminal or collect messages in tests.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// CommandParser converts raw user input into structured intents.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}
