package versions

import (
	"strings"

	"github.com/charmbracelet/log"
)

// Control lines in the versions feed. The header block ends with a bare
// "---" separator, and snapshot boundaries carry a created_at timestamp
// directive. Neither holds version data.
const (
	headerSeparator = "---"
	timestampPrefix = "created_at:"
)

// removalMarker prefixes a version token that yanks the exact version string.
const removalMarker = "-"

// applyLine applies one line of feed delta to the index.
//
// Each data line has the form "<gem> <token>[,<token>...]". Tokens are
// applied in order; a token with a leading "-" removes that version, any
// other token appends it. Control lines and blank lines are skipped.
// Malformed lines are logged and skipped so a single bad line never aborts
// the rest of a delta.
func applyLine(idx *Index, line string, logger *log.Logger) {
	line = strings.TrimSpace(line)
	if line == "" || line == headerSeparator || strings.HasPrefix(line, timestampPrefix) {
		return
	}

	gem, tokens, ok := strings.Cut(line, " ")
	if !ok {
		logger.Warn("skipping malformed feed line", "line", line)
		return
	}

	for _, token := range strings.Split(tokens, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if version, yanked := strings.CutPrefix(token, removalMarker); yanked {
			idx.Remove(gem, version)
		} else {
			idx.Add(gem, token)
		}
	}
}
