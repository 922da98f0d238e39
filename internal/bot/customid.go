package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Fixed component custom IDs. These are a wire contract with messages
// already sitting in Discord channels; do not rename.
const (
	IDConfirmBet  = "matchup_btn_confirm"
	IDCancelBet   = "matchup_btn_cancel"
	IDMatchSelect = "matchup_select_match"
)

const (
	propIDPrefix = "prop_"
	navIDPrefix  = "lb_nav:"
)

// NavAction is a leaderboard pagination action.
type NavAction string

const (
	NavFirst NavAction = "first"
	NavPrev  NavAction = "prev"
	NavNext  NavAction = "next"
	NavLast  NavAction = "last"
)

func validNavAction(a NavAction) bool {
	switch a {
	case NavFirst, NavPrev, NavNext, NavLast:
		return true
	}
	return false
}

// PropID builds the dynamic custom ID for a prop button from the prop's
// server-assigned UUID.
func PropID(propID string) string {
	return propIDPrefix + propID
}

// ParsePropID extracts the prop UUID from a prop button's custom ID.
func ParsePropID(customID string) (string, bool) {
	raw, ok := strings.CutPrefix(customID, propIDPrefix)
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", false
	}
	return raw, true
}

// NavID encodes a pagination action and the page the button should land on.
func NavID(action NavAction, targetPage int) string {
	return fmt.Sprintf("%s%s:%d", navIDPrefix, action, targetPage)
}

// ParseNavID decodes a pagination custom ID back into its action and page.
func ParseNavID(customID string) (NavAction, int, bool) {
	raw, ok := strings.CutPrefix(customID, navIDPrefix)
	if !ok {
		return "", 0, false
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return "", 0, false
	}
	action := NavAction(parts[0])
	if !validNavAction(action) {
		return "", 0, false
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil || page < 0 {
		return "", 0, false
	}
	return action, page, true
}

// TargetPage applies a nav action to the current page within [0, lastPage].
func TargetPage(action NavAction, currentPage, lastPage int) int {
	if lastPage < 0 {
		lastPage = 0
	}
	page := currentPage
	switch action {
	case NavFirst:
		page = 0
	case NavPrev:
		page = currentPage - 1
	case NavNext:
		page = currentPage + 1
	case NavLast:
		page = lastPage
	}
	if page < 0 {
		page = 0
	}
	if page > lastPage {
		page = lastPage
	}
	return page
}
