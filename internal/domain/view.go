package domain

import "strings"

// ViewKey identifies a logical screen whose data is fetched independently.
type ViewKey string

// Fixed view keys. Category views are keyed per category name.
const (
	ViewHome       ViewKey = "home"
	ViewCategories ViewKey = "categories"
	ViewSaved      ViewKey = "saved"
	ViewShopping   ViewKey = "shopping"
	ViewProfile    ViewKey = "profile"
	ViewDetail     ViewKey = "detail"
)

const categoryPrefix = "category:"

// CategoryView returns the view key for a category.
func CategoryView(name string) ViewKey {
	return ViewKey(categoryPrefix + strings.ToLower(strings.TrimSpace(name)))
}

// IsCategory reports whether the key belongs to a category view.
func (k ViewKey) IsCategory() bool {
	return strings.HasPrefix(string(k), categoryPrefix)
}

// ViewStatus is the fetch state of a view. Exactly one holds at a time.
type ViewStatus int

const (
	StatusIdle ViewStatus = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns a human-readable view status.
func (s ViewStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ViewState is the data record a view renders from.
// Items survive an error so a transient failure does not blank the list.
type ViewState[T any] struct {
	Status       ViewStatus
	Items        []T
	ErrorMessage string
	ErrKind      ErrorKind
}

// Clone returns a copy whose Items slice is not shared.
func (v ViewState[T]) Clone() ViewState[T] {
	out := v
	if v.Items != nil {
		out.Items = make([]T, len(v.Items))
		copy(out.Items, v.Items)
	}
	return out
}
