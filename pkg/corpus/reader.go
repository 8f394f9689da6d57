package corpus

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	xhtml "golang.org/x/net/html"
)

// Record is one <REUTERS> element of an SGML corpus file.
type Record struct {
	NewID int
	Title string
	Body  string
}

func (r Record) Text() string {
	return strings.TrimSpace(r.Title + " " + r.Body)
}

// ListFiles returns the corpus files under dir matching any of the include
// globs, sorted by name. An empty include list keeps every regular file.
func ListFiles(dir string, include []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if len(include) > 0 {
			matched := false
			for _, pattern := range include {
				ok, err := doublestar.Match(pattern, name)
				if err != nil {
					return nil, fmt.Errorf("bad include pattern %q: %w", pattern, err)
				}
				if ok {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	log.Printf("Corpus files count: %d\n", len(files))

	return files, nil
}

// ParseFile extracts every record of one SGML file.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseRecords(f, path)
}

func parseRecords(r io.Reader, name string) ([]Record, error) {
	z := xhtml.NewTokenizer(r)

	var (
		records []Record
		cur     *Record
		title   strings.Builder
		body    strings.Builder
		section *strings.Builder
	)
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("parse %s: %w", name, z.Err())

		case xhtml.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "reuters":
				id, err := recordID(tok.Attr)
				if err != nil {
					return nil, fmt.Errorf("parse %s: record %d: %w", name, len(records)+1, err)
				}
				cur = &Record{NewID: id}
				title.Reset()
				body.Reset()
			case "title":
				if cur != nil {
					section = &title
				}
			case "body":
				if cur != nil {
					section = &body
				}
			}

		case xhtml.EndTagToken:
			tok := z.Token()
			switch tok.Data {
			case "reuters":
				if cur != nil {
					cur.Title = strings.TrimSpace(title.String())
					cur.Body = strings.TrimSpace(body.String())
					records = append(records, *cur)
					cur = nil
				}
				section = nil
			case "title", "body":
				section = nil
			}

		case xhtml.TextToken:
			if section != nil {
				section.Write(z.Text())
			}
		}
	}
}

func recordID(attrs []xhtml.Attribute) (int, error) {
	for _, attr := range attrs {
		if attr.Key != "newid" {
			continue
		}
		id, err := strconv.Atoi(attr.Val)
		if err != nil {
			return 0, fmt.Errorf("bad NEWID %q", attr.Val)
		}
		return id, nil
	}
	return 0, errors.New("missing NEWID")
}
