package repository

// Page bounds a list query. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) limit() int {
	if p.Limit <= 0 {
		return -1
	}
	return p.Limit
}
