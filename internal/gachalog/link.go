package gachalog

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidLink rejects input without a 32 character record id.
	ErrInvalidLink = errors.New("invalid gacha record link")
	// ErrPlayerMismatch rejects links or files that belong to another account.
	ErrPlayerMismatch = errors.New("record belongs to another player")
)

const recordIDLen = 32

var (
	stripRe = regexp.MustCompile(`["\n\t ]+`)

	urlRecordRe  = regexp.MustCompile(`record_id=([a-zA-Z0-9]+)`)
	urlPlayerRe  = regexp.MustCompile(`player_id=(\d+)`)
	jsonRecordRe = regexp.MustCompile(`recordId:([a-zA-Z0-9]+)`)
	jsonPlayerRe = regexp.MustCompile(`playerId:(\d+)`)
	kvRecordRe   = regexp.MustCompile(`recordId=([a-zA-Z0-9]+)`)
	kvPlayerRe   = regexp.MustCompile(`playerId=(\d+)`)
)

// Link is what an import request carries. PlayerID is empty when the input did not name one.
type Link struct {
	RecordID string
	PlayerID string
}

// ParseLink accepts a record page URL, a pasted JSON fragment, a recordId=... fragment,
// or a bare record id. Quotes and whitespace are ignored.
func ParseLink(raw string) (Link, error) {
	text := stripRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if text == "" {
		return Link{}, errors.Wrap(ErrInvalidLink, "empty input")
	}

	var recRe, playerRe *regexp.Regexp
	switch {
	case strings.Contains(text, "https://"):
		recRe, playerRe = urlRecordRe, urlPlayerRe
	case strings.Contains(text, "{"):
		recRe, playerRe = jsonRecordRe, jsonPlayerRe
	case strings.Contains(text, "recordId="):
		recRe, playerRe = kvRecordRe, kvPlayerRe
	default:
		text = "recordId=" + text
		recRe = kvRecordRe
	}

	var l Link
	if m := recRe.FindStringSubmatch(text); m != nil {
		l.RecordID = m[1]
	}
	if playerRe != nil {
		if m := playerRe.FindStringSubmatch(text); m != nil {
			l.PlayerID = m[1]
		}
	}
	if len(l.RecordID) != recordIDLen {
		return Link{}, errors.Wrapf(ErrInvalidLink, "record id length %d", len(l.RecordID))
	}
	return l, nil
}

// CheckPlayer fails when the link names a player other than uid.
func (l Link) CheckPlayer(uid string) error {
	if l.PlayerID != "" && l.PlayerID != uid {
		return errors.Wrapf(ErrPlayerMismatch, "link player %s, bound %s", l.PlayerID, uid)
	}
	return nil
}
