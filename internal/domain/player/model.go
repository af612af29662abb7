package player

import "strings"

// Query identifies the subject player of an extraction. At least one of ID or
// Name must be set; providers sometimes expose only one of the two.
type Query struct {
	ID   *int64
	Name string
}

func (q Query) Empty() bool {
	return q.ID == nil && strings.TrimSpace(q.Name) == ""
}
