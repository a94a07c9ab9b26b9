package review

import "fmt"

// NextPending scans queue strictly after from and returns the lowest index
// whose status is pending. When none is left it returns len(queue) and false.
// Pass -1 to scan from the start.
func NextPending(queue []Mapping, from int) (int, bool) {
	start := from + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(queue); i++ {
		if queue[i].ReviewStatus == StatusPending {
			return i, true
		}
	}
	return len(queue), false
}

// AllDecided reports whether no mapping anywhere in queue is pending.
func AllDecided(queue []Mapping) bool {
	for _, m := range queue {
		if m.ReviewStatus == StatusPending {
			return false
		}
	}
	return true
}

// Counts tallies a queue by status.
type Counts struct {
	Total    int `json:"total" yaml:"total"`
	Pending  int `json:"pending" yaml:"pending"`
	Accepted int `json:"accepted" yaml:"accepted"`
	Rejected int `json:"rejected" yaml:"rejected"`
}

// Count tallies queue by status.
func Count(queue []Mapping) Counts {
	c := Counts{Total: len(queue)}
	for _, m := range queue {
		switch m.ReviewStatus {
		case StatusPending:
			c.Pending++
		case StatusAccept:
			c.Accepted++
		case StatusReject:
			c.Rejected++
		}
	}
	return c
}

// CompletionText is the progress text once nothing is pending.
func CompletionText(total int) string {
	return fmt.Sprintf("Reviewed all %d 🎉", total)
}

// Progress returns the progress text for a queue and cursor. It reports
// completion whenever nothing in the queue is pending, wherever the cursor is.
func Progress(queue []Mapping, cursor int) string {
	if AllDecided(queue) {
		return CompletionText(len(queue))
	}
	return fmt.Sprintf("Reviewing %d of %d", cursor+1, len(queue))
}
