package index

import (
	"errors"
	"fmt"
	"io"

	"boolsearch/pkg/utils/binary"
)

// Entries of both artifact kinds share one frame: a length-prefixed key
// followed by tagged values and an end mark. Index entries carry docIDs,
// bigram entries carry terms.
const (
	markEntry uint8 = iota
	markEnd
)

// TermPostings is one term's sorted docID list.
type TermPostings struct {
	Term   string
	DocIDs []int
}

// TermList is one bigram's sorted list of matching terms.
type TermList struct {
	Key   string
	Terms []string
}

func WriteTermPostings(bw *binary.ByteWriter, tp TermPostings) error {
	if err := bw.WriteString(tp.Term); err != nil {
		return err
	}
	for _, id := range tp.DocIDs {
		if err := bw.WriteUint8(markEntry); err != nil {
			return err
		}
		if err := bw.WriteInt(id); err != nil {
			return err
		}
	}
	return bw.WriteUint8(markEnd)
}

// ReadTermPostings reads one entry. io.EOF means a clean end of the
// stream; a truncated entry comes back as io.ErrUnexpectedEOF.
func ReadTermPostings(br *binary.ByteReader) (TermPostings, error) {
	var tp TermPostings

	term, err := br.ReadString()
	if err != nil {
		return tp, err
	}
	tp.Term = term

	for {
		mark, err := br.ReadUint8()
		if err != nil {
			return tp, entryErr(err)
		}
		if mark == markEnd {
			return tp, nil
		}
		if mark != markEntry {
			return tp, fmt.Errorf("bad mark %d in postings of %q", mark, term)
		}
		id, err := br.ReadInt()
		if err != nil {
			return tp, entryErr(err)
		}
		tp.DocIDs = append(tp.DocIDs, id)
	}
}

func WriteTermList(bw *binary.ByteWriter, tl TermList) error {
	if err := bw.WriteString(tl.Key); err != nil {
		return err
	}
	for _, term := range tl.Terms {
		if err := bw.WriteUint8(markEntry); err != nil {
			return err
		}
		if err := bw.WriteString(term); err != nil {
			return err
		}
	}
	return bw.WriteUint8(markEnd)
}

func ReadTermList(br *binary.ByteReader) (TermList, error) {
	var tl TermList

	key, err := br.ReadString()
	if err != nil {
		return tl, err
	}
	tl.Key = key

	for {
		mark, err := br.ReadUint8()
		if err != nil {
			return tl, entryErr(err)
		}
		if mark == markEnd {
			return tl, nil
		}
		if mark != markEntry {
			return tl, fmt.Errorf("bad mark %d in term list of %q", mark, key)
		}
		term, err := br.ReadString()
		if err != nil {
			return tl, entryErr(err)
		}
		tl.Terms = append(tl.Terms, term)
	}
}

// entryErr turns a clean EOF inside an entry into the truncation error
// it really is.
func entryErr(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
