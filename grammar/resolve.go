package grammar

// ResolveLookup follows the lookup chain starting at c until it reaches a
// leaf and returns that leaf's content. Cycles are detected with a visited
// set and reported as a *CycleError; a chain ending at a missing cell
// reports ErrNotFound, and one ending at a grid reports a *NotALeafError.
func (m *Model) ResolveLookup(c Coordinate) (string, error) {
	visited := make(map[string]bool)
	cur := c
	for {
		key := cur.String()
		if visited[key] {
			return "", &CycleError{At: cur}
		}
		visited[key] = true

		g, ok := m.get(cur)
		if !ok {
			return "", ErrNotFound
		}
		switch g.Kind {
		case KindLookup:
			cur = g.Ref
		case KindGrid:
			return "", &NotALeafError{Cell: cur}
		default:
			return g.Content, nil
		}
	}
}
