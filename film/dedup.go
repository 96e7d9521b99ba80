package film

// Dedup drops every film whose key was already seen, keeping the first one.
func Dedup(films []Film) []Film {
	seen := make(map[Key]struct{}, len(films))
	unique := make([]Film, 0, len(films))
	for _, f := range films {
		k := f.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, f)
	}
	return unique
}

// Titles returns the titles of the given films, in order.
func Titles(films []Film) []string {
	titles := make([]string, len(films))
	for i, f := range films {
		titles[i] = f.String()
	}
	return titles
}
