package khronos

import "errors"

// genericFailureMessage is shown when the server reports an exception name
// we have no specific wording for.
const genericFailureMessage = "Something went wrong on our end. Please try again later."

// userMessages maps server-declared exception names to user-facing wording.
// This table is data, not logic: adding a new server exception means adding
// a row here, nothing else.
var userMessages = map[string]string{
	"InsufficientBalance":  "You don't have enough to place that bet.",
	"GameHasStarted":       "That game has already started — betting is closed for it.",
	"DuplicateBetslip":     "You already have a bet on that game.",
	"ClaimCooldown":        "You've already claimed today. Come back tomorrow!",
	"AccountNotFound":      "You don't have a betting account yet. Place a bet or claim your daily to create one.",
	"MultipleGamesForTeam": "That team has more than one upcoming game. Pick the matchup you meant.",
	"BetslipNotFound":      "Couldn't find a pending bet to act on. Start a new one with /bet.",
	"AmountBelowMinimum":   "That bet is below the minimum amount.",
	"AmountAboveMaximum":   "That bet is above the maximum amount.",
	"MatchNotFound":        "Couldn't find a matchup for that team. Double-check the name.",
	"PropNotFound":         "That prop is no longer available.",
	"GuildNotRegistered":   "This server isn't set up for betting yet.",
}

// UserMessage translates an error from any Khronos call into the message a
// Discord user should see. Unmapped exception names and non-exception
// failures fall back to a generic message; raw errors never reach the user.
func UserMessage(err error) string {
	var exc *ServerException
	if errors.As(err, &exc) {
		if msg, ok := userMessages[exc.Exception]; ok {
			return msg
		}
	}
	return genericFailureMessage
}

// IsException reports whether err carries the named server exception.
func IsException(err error, name string) bool {
	var exc *ServerException
	return errors.As(err, &exc) && exc.Exception == name
}
