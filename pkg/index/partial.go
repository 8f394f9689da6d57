package index

import (
	"errors"
	"io"
	"iter"
	"os"
	"slices"
	"sort"

	"boolsearch/pkg/corpus"
	"boolsearch/pkg/utils/binary"
	"boolsearch/pkg/utils/stream"
)

// PartialIndex accumulates term -> docIDs for one batch of documents.
type PartialIndex map[string][]int

// AddDoc records each distinct token of doc once.
func (p PartialIndex) AddDoc(doc corpus.Doc) {
	seen := map[string]struct{}{}
	for _, term := range doc.Tokens {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		p[term] = append(p[term], doc.ID)
	}
}

// SortedList returns the entries in term order with sorted, deduped
// docID lists.
func (p PartialIndex) SortedList() []TermPostings {
	terms := make([]string, 0, len(p))
	for term := range p {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	list := make([]TermPostings, 0, len(terms))
	for _, term := range terms {
		ids := p[term]
		slices.Sort(ids)
		ids = slices.Compact(ids)
		list = append(list, TermPostings{
			Term:   term,
			DocIDs: ids,
		})
	}

	return list
}

type PartialIndexIter struct {
	Next func() (int, TermPostings, bool)
	Stop func()
	// Err reports the read failure that ended iteration, if any. Check
	// it after Next returns false.
	Err func() error
}

func (p PartialIndex) SortedIter() PartialIndexIter {
	var outIter PartialIndexIter

	iterFunc := func(yield func(int, TermPostings) bool) {
		for i, tp := range p.SortedList() {
			if !yield(i, tp) {
				return
			}
		}
	}

	next, stop := iter.Pull2(iterFunc)
	outIter.Next = next
	outIter.Stop = stop
	outIter.Err = func() error { return nil }

	return outIter
}

// FilePartialIndexIterator streams the entries of one partial file in
// term order.
func FilePartialIndexIterator(file string) (PartialIndexIter, error) {
	var indexIter PartialIndexIter

	f, err := os.Open(file)
	if err != nil {
		return indexIter, err
	}

	var readErr error
	br := binary.NewBufferedByteReader(f)
	iterFunc := func(yield func(int, TermPostings) bool) {
		defer f.Close()
		count := 0
		for {
			tp, err := ReadTermPostings(br)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				readErr = err
				break
			}
			if !yield(count, tp) {
				return
			}
			count++
		}
	}

	next, stop := iter.Pull2(iterFunc)
	indexIter.Next = next
	indexIter.Stop = stop
	indexIter.Err = func() error { return readErr }

	return indexIter, nil
}

func WritePartialIndex(bw *binary.ByteWriter, p PartialIndex) error {
	for _, tp := range p.SortedList() {
		if err := WriteTermPostings(bw, tp); err != nil {
			return err
		}
	}
	return nil
}

func ReadPartialIndex(br *binary.ByteReader) (PartialIndex, error) {
	index := PartialIndex{}

	for {
		tp, err := ReadTermPostings(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		index[tp.Term] = tp.DocIDs
	}

	return index, nil
}

// SavePartialIndex spills one partial index to a temp file under dir
// and returns the file name.
func SavePartialIndex(dir string, p PartialIndex) (string, error) {
	f, err := os.CreateTemp(dir, "partial.index")
	if err != nil {
		return "", err
	}

	bw := binary.NewBufferedByteWriter(f)
	if err := WritePartialIndex(bw, p); err != nil {
		f.Close()
		return "", err
	}
	if err := bw.Close(); err != nil {
		return "", err
	}

	return f.Name(), nil
}

// BuildPartialIndexes batches docs from producer into partial indexes.
func BuildPartialIndexes(batch int, producer stream.Producer[corpus.Doc], consumer stream.Consumer[PartialIndex]) {
	count := 0
	index := PartialIndex{}
	for {
		doc, ok := producer.Produce()
		if !ok {
			if count != 0 {
				consumer.Consume(index)
			}
			break
		}

		index.AddDoc(doc)

		count++
		if count == batch {
			consumer.Consume(index)
			count = 0
			index = PartialIndex{}
		}
	}
}
