package common

import "hash/fnv"

// GenerateIDFromText hashes a piece of text into a numeric ID; this is used to
// tag cached artifacts (eg. the parsing table) with the content they were
// built from so stale caches can be detected
func GenerateIDFromText(text string) uint {
	h := fnv.New32a()
	h.Write([]byte(text))
	return uint(h.Sum32())
}
