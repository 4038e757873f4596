// Package domain defines the core types and interfaces for the recipe client.
// All other packages depend on domain; domain depends on nothing.
package domain

import "strings"

// UntitledRecipe is shown when a record carries no title.
const UntitledRecipe = "No Title"

// InstructionsPending is shown while a detail view has no instructions.
const InstructionsPending = "Instructions not yet available."

// Field names used by recipe documents in the remote store.
const (
	FieldTitle = "title"
	FieldImage = "image"
	FieldID    = "id"
	FieldItem  = "item"
)

// RecipeSummary is a lightweight view of a recipe for listing.
// ID is empty when the record only exists in the remote store.
type RecipeSummary struct {
	ID       string
	Title    string
	ImageURL string
}

// NewRecipeSummary builds a summary, applying the title placeholder.
func NewRecipeSummary(id, title, image string) RecipeSummary {
	if strings.TrimSpace(title) == "" {
		title = UntitledRecipe
	}
	return RecipeSummary{ID: id, Title: title, ImageURL: image}
}

// HasExternalID reports whether the summary can be resolved by the search service.
func (r RecipeSummary) HasExternalID() bool {
	return strings.TrimSpace(r.ID) != ""
}

// Key returns the display identity of the summary: the external id when
// present, otherwise the (title, image) pair.
func (r RecipeSummary) Key() string {
	if r.HasExternalID() {
		return "id:" + r.ID
	}
	return "v:" + r.Title + "\x00" + r.ImageURL
}

// Fields converts the summary into store document fields.
func (r RecipeSummary) Fields() map[string]string {
	return map[string]string{
		FieldTitle: r.Title,
		FieldImage: r.ImageURL,
		FieldID:    r.ID,
	}
}

// SummaryFromDocument converts a stored document into a summary.
// Missing fields become empty strings.
func SummaryFromDocument(doc Document) RecipeSummary {
	return NewRecipeSummary(doc.Fields[FieldID], doc.Fields[FieldTitle], doc.Fields[FieldImage])
}

// RecipeDetails is a summary plus instructions. Instructions is nil until fetched.
type RecipeDetails struct {
	RecipeSummary
	Instructions *string
}

// InstructionsText returns the instructions or the pending placeholder.
func (d RecipeDetails) InstructionsText() string {
	if d.Instructions == nil {
		return InstructionsPending
	}
	return *d.Instructions
}

// ShoppingItem is a single shopping list entry. Items are unique by Label.
type ShoppingItem struct {
	RemoteID string
	Label    string
}

// Profile holds the signed-in user's profile document.
type Profile struct {
	UserID   string
	UserName string
	Email    string
}

// Document is a remote store record: an id plus flat string fields.
type Document struct {
	ID     string
	Fields map[string]string
}
