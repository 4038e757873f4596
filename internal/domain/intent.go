package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentSearch
	IntentSelectTab
	IntentOpen     // open the Nth entry of the visible list
	IntentCategory // open a category by name
	IntentBack
	IntentSave
	IntentAddItem
	IntentRemoveItem
	IntentRefresh
	IntentList // re-render the active view
	IntentSignOut
	IntentInfo // about / privacy / gdpr notices
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentSearch:
		return "search"
	case IntentSelectTab:
		return "select_tab"
	case IntentOpen:
		return "open"
	case IntentCategory:
		return "category"
	case IntentBack:
		return "back"
	case IntentSave:
		return "save"
	case IntentAddItem:
		return "add_item"
	case IntentRemoveItem:
		return "remove_item"
	case IntentRefresh:
		return "refresh"
	case IntentList:
		return "list"
	case IntentSignOut:
		return "sign_out"
	case IntentInfo:
		return "info"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // query, tab name, list index, category, or item label
}
