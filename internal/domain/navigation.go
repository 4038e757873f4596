package domain

// Tab is a main navigation tab.
type Tab int

const (
	TabHome Tab = iota
	TabCategories
	TabSaved
	TabShopping
	TabProfile
)

// String returns a human-readable tab name.
func (t Tab) String() string {
	switch t {
	case TabHome:
		return "Home"
	case TabCategories:
		return "Categories"
	case TabSaved:
		return "Saved"
	case TabShopping:
		return "Shopping"
	case TabProfile:
		return "Profile"
	default:
		return "Unknown"
	}
}

var tabNames = map[string]Tab{
	"home":       TabHome,
	"categories": TabCategories,
	"saved":      TabSaved,
	"shopping":   TabShopping,
	"profile":    TabProfile,
}

// TabFromString converts a lower-case tab name to a Tab.
func TabFromString(name string) (Tab, bool) {
	t, ok := tabNames[name]
	return t, ok
}

// OverlayKind classifies the layer drawn above the tabbed view.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlayDetail
	OverlayCategory
)

// String returns a human-readable overlay kind.
func (k OverlayKind) String() string {
	switch k {
	case OverlayNone:
		return "none"
	case OverlayDetail:
		return "detail"
	case OverlayCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Overlay is the active overlay. Recipe is set for Detail, Category for Category.
type Overlay struct {
	Kind     OverlayKind
	Recipe   RecipeSummary
	Category string
}

// NavigationState is the visible screen: a tab plus an optional overlay.
type NavigationState struct {
	ActiveTab Tab
	Overlay   Overlay
}

// TabBarVisible reports whether tab chrome is shown. Any overlay hides it.
func (n NavigationState) TabBarVisible() bool {
	return n.Overlay.Kind == OverlayNone
}

// ActiveView returns the view key whose data is currently on screen.
func (n NavigationState) ActiveView() ViewKey {
	switch n.Overlay.Kind {
	case OverlayDetail:
		return ViewDetail
	case OverlayCategory:
		return CategoryView(n.Overlay.Category)
	}
	switch n.ActiveTab {
	case TabCategories:
		return ViewCategories
	case TabSaved:
		return ViewSaved
	case TabShopping:
		return ViewShopping
	case TabProfile:
		return ViewProfile
	default:
		return ViewHome
	}
}
