package root

import (
	"fmt"
	"strconv"
	"strings"
)

// parseWeekdays turns "mon,wed,fri" or "1,3,5" into weekday indexes
// (0=Sun..6=Sat). Empty input means no restriction.
func parseWeekdays(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	names := map[string]int{
		"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if idx, ok := names[part]; ok {
			out = append(out, idx)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("bad weekday %q (use sun..sat or 0..6)", part)
		}
		out = append(out, n)
	}
	return out, nil
}
