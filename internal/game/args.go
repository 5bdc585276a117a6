package game

import (
	"errors"
	"strconv"
	"strings"
)

var errBadAmount = errors.New("amount must be a positive whole number")

// parseMention extracts the id from a "<open id>" mention, accepting a bare
// numeric id as well.
func parseMention(s string, opens ...string) (string, bool) {
	for _, open := range opens {
		if strings.HasPrefix(s, open) && strings.HasSuffix(s, ">") {
			s = s[len(open) : len(s)-1]
			break
		}
	}
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}

func parseUser(s string) (string, bool)    { return parseMention(s, "<@!", "<@") }
func parseRole(s string) (string, bool)    { return parseMention(s, "<@&") }
func parseChannel(s string) (string, bool) { return parseMention(s, "<#") }

// parseAmount reads a positive amount of cash. "$" and thousands separators
// are accepted.
func parseAmount(s string) (int64, error) {
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, errBadAmount
	}
	return n, nil
}

func mention(userID string) string     { return "<@" + userID + ">" }
func roleMention(roleID string) string { return "<@&" + roleID + ">" }
