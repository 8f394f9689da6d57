package index

import "time"

// BuildStats summarizes one index build. It rides along in the index
// artifact so query tools can report on the data they serve.
type BuildStats struct {
	Files      int
	Records    int
	Docs       int
	Duplicates int
	Terms      int
	Postings   int
	Bigrams    int
	Stemmed    bool
	Deduped    bool
	BuiltAt    time.Time
}
