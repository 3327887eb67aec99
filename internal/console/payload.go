package console

import (
	"regexp"
	"strconv"
	"strings"
)

var numeric = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// NumericFields names the form fields each property kind sends as JSON
// numbers.  Everything else stays a string even when it looks numeric,
// so a ship code of "101" is not turned into 101.
var NumericFields = map[string]map[string]bool{
	"resort": {"capacity": true, "numberOfRooms": true, "resortCompanyId": true},
	"ship":   {"capacity": true, "decks": true, "cruiseLineId": true},
}

// BuildPayload turns raw form fields into a JSON body.  Values are
// trimmed and blank values become null.  Fields named in numericKeys become
// numbers when they parse as one; a field that does not parse is sent
// as typed and left for the server to reject.
func BuildPayload(fields map[string]string, numericKeys map[string]bool) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		v = strings.TrimSpace(v)
		switch {
		case v == "":
			out[k] = nil
		case numericKeys[k] && numeric.MatchString(v):
			out[k] = toNumber(v)
		default:
			out[k] = v
		}
	}
	return out
}

func toNumber(v string) any {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
