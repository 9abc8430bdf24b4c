package catalog

// Streams returns the distinct streams across the catalog in first-seen order.
func Streams(entries []Entry) []string {
	return distinct(entries, func(Entry) bool { return true }, func(e Entry) string { return e.Stream })
}

// Levels returns the distinct levels available under a stream, in the order
// they first occur in the catalog.
func Levels(entries []Entry, stream string) []string {
	return distinct(entries,
		func(e Entry) bool { return e.Stream == stream },
		func(e Entry) string { return e.Level })
}

// Degrees returns the distinct degree names under a stream and level.
func Degrees(entries []Entry, stream, level string) []string {
	return distinct(entries,
		func(e Entry) bool { return e.Stream == stream && e.Level == level },
		func(e Entry) string { return e.DegreeName })
}

// Specializations returns the distinct specializations under a stream, level
// and degree.
func Specializations(entries []Entry, stream, level, degree string) []string {
	return distinct(entries,
		func(e Entry) bool {
			return e.Stream == stream && e.Level == level && e.DegreeName == degree
		},
		func(e Entry) string { return e.Specialization })
}

// CourseNames returns the course names matching the full upstream selection.
// Unlike the other option lists this is deliberately not deduplicated:
// multiple catalog rows may share a name and diverge downstream.
func CourseNames(entries []Entry, stream, level, degree, specialization string) []string {
	out := make([]string, 0, 8)
	for _, e := range entries {
		if e.Stream != stream || e.Level != level || e.DegreeName != degree || e.Specialization != specialization {
			continue
		}
		out = append(out, e.CourseName)
	}
	return out
}

func distinct(entries []Entry, match func(Entry) bool, key func(Entry) string) []string {
	out := make([]string, 0, 8)
	seen := map[string]struct{}{}
	for _, e := range entries {
		if !match(e) {
			continue
		}
		k := key(e)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
