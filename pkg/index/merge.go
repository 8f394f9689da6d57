package index

import (
	"iter"
	"slices"

	pq "github.com/emirpasic/gods/v2/queues/priorityqueue"
)

// MergeDocIDs merges sorted docID lists into one sorted list without
// duplicates.
func MergeDocIDs(lists ...[]int) []int {
	if len(lists) == 0 {
		return nil
	}
	if len(lists) == 1 {
		return lists[0]
	}

	merged := []int{}
	for _, list := range lists {
		merged = append(merged, list...)
	}
	slices.Sort(merged)
	return slices.Compact(merged)
}

// KwayMergeReader merges term-ordered partial iterators into one
// term-ordered stream. Entries for the same term are folded into a
// single posting list.
func KwayMergeReader(indexIters []PartialIndexIter) PartialIndexIter {
	type Item struct {
		ID       int
		Postings TermPostings
	}

	comparator := func(a, b string) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		} else {
			return 0
		}
	}

	var readErr error

	iterFunc := func(yield func(int, TermPostings) bool) {
		defer func() {
			for _, indexIter := range indexIters {
				indexIter.Stop()
			}
		}()

		readerQ := pq.NewWith(comparator)
		itemMap := map[string][]Item{}
		advance := func(id int) {
			_, tp, ok := indexIters[id].Next()
			if !ok {
				if err := indexIters[id].Err(); err != nil && readErr == nil {
					readErr = err
				}
				return
			}

			term := tp.Term
			if len(itemMap[term]) == 0 {
				readerQ.Enqueue(term)
			}
			itemMap[term] = append(itemMap[term], Item{
				ID:       id,
				Postings: tp,
			})
		}

		for i := range indexIters {
			advance(i)
			if readErr != nil {
				return
			}
		}

		count := 0
		for !readerQ.Empty() {
			term, ok := readerQ.Dequeue()
			if !ok {
				break
			}

			items := itemMap[term]
			delete(itemMap, term)

			lists := make([][]int, 0, len(items))
			for _, item := range items {
				lists = append(lists, item.Postings.DocIDs)
			}

			if !yield(count, TermPostings{Term: term, DocIDs: MergeDocIDs(lists...)}) {
				return
			}
			count++

			for _, item := range items {
				advance(item.ID)
				if readErr != nil {
					return
				}
			}
		}
	}

	var outIter PartialIndexIter
	next, stop := iter.Pull2(iterFunc)
	outIter.Next = next
	outIter.Stop = stop
	outIter.Err = func() error { return readErr }

	return outIter
}
