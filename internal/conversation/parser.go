// Package conversation turns typed commands into intents and prints notifications.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*CommandParser)(nil)

// CommandParser matches terminal input against a fixed command grammar.
type CommandParser struct {
	log   *logger.Logger
	rules []rule
}

// rule maps a pattern to an intent. The first capture group becomes the
// payload for intents that take one.
type rule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

var tabAliases = map[string]string{
	"home":       "home",
	"categories": "categories",
	"cats":       "categories",
	"saved":      "saved",
	"favorites":  "saved",
	"favs":       "saved",
	"shopping":   "shopping",
	"shop":       "shopping",
	"profile":    "profile",
	"me":         "profile",
}

// NewCommandParser creates the terminal command parser.
func NewCommandParser(log *logger.Logger) *CommandParser {
	p := &CommandParser{log: log}
	p.rules = []rule{
		{regex: regexp.MustCompile(`(?i)^(?:search|find|s)(?:\s+(.+))?$`), intent: domain.IntentSearch},
		{regex: regexp.MustCompile(`(?i)^(?:open|o)\s+(\d+)$`), intent: domain.IntentOpen},
		{regex: regexp.MustCompile(`(?i)^(\d{1,3})$`), intent: domain.IntentOpen},
		{regex: regexp.MustCompile(`(?i)^(?:category|cat|c)\s+(.+)$`), intent: domain.IntentCategory},
		{regex: regexp.MustCompile(`(?i)^(?:tab|go)\s+(\w+)$`), intent: domain.IntentSelectTab},
		{regex: regexp.MustCompile(`(?i)^(back|b|esc)$`), intent: domain.IntentBack},
		{regex: regexp.MustCompile(`(?i)^(save|fav|favorite)$`), intent: domain.IntentSave},
		{regex: regexp.MustCompile(`(?i)^(?:add|buy)\s+(.+)$`), intent: domain.IntentAddItem},
		{regex: regexp.MustCompile(`(?i)^(?:remove|rm|del)\s+(.+)$`), intent: domain.IntentRemoveItem},
		{regex: regexp.MustCompile(`(?i)^(refresh|reload|r)$`), intent: domain.IntentRefresh},
		{regex: regexp.MustCompile(`(?i)^(ls|list|show)$`), intent: domain.IntentList},
		{regex: regexp.MustCompile(`(?i)^(signout|sign out|logout|log out)$`), intent: domain.IntentSignOut},
		{regex: regexp.MustCompile(`(?i)^(about|privacy|gdpr)$`), intent: domain.IntentInfo},
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), intent: domain.IntentHelp},
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q)$`), intent: domain.IntentQuit},
	}
	return p
}

// Parse converts user input into an intent. Bare tab names select that tab.
// Input matching no command yields IntentUnknown carrying the text.
func (p *CommandParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}
	p.log.Debug("parsing input: %q", trimmed)

	if tab, ok := tabAliases[strings.ToLower(trimmed)]; ok {
		return &domain.Intent{Type: domain.IntentSelectTab, Payload: tab}, nil
	}

	for _, r := range p.rules {
		m := r.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		payload := ""
		if len(m) > 1 {
			payload = strings.TrimSpace(m[1])
		}
		switch r.intent {
		case domain.IntentSelectTab:
			tab, ok := tabAliases[strings.ToLower(payload)]
			if !ok {
				return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
			}
			payload = tab
		case domain.IntentInfo:
			payload = strings.ToLower(payload)
		case domain.IntentBack, domain.IntentSave, domain.IntentRefresh, domain.IntentList,
			domain.IntentSignOut, domain.IntentHelp, domain.IntentQuit:
			payload = ""
		}
		p.log.Debug("matched intent: %s", r.intent)
		return &domain.Intent{Type: r.intent, Payload: payload}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}
