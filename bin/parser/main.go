package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"boolsearch/pkg/config"
	"boolsearch/pkg/corpus"
	"boolsearch/pkg/utils/stream"
)

// Corpus inspection: parse per config and print a few sample docs, so a
// bad corpus dir or tokenizer setting shows up before a full build.
func main() {
	configPath := flag.String("config", "", "config file path")
	samples := flag.Int("samples", 3, "number of sample docs to print")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	var stopwords []string
	if cfg.Corpus.StopwordsFile != "" {
		stopwords, err = corpus.LoadStopwords(cfg.Corpus.StopwordsFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	tok := corpus.NewTokenizer(stopwords, cfg.Index.Stem)

	files, err := corpus.ListFiles(cfg.Corpus.Dir, cfg.Corpus.Include)
	if err != nil {
		log.Fatal(err)
	}

	consumer := stream.NewArrayConsumer[corpus.Doc]()
	_, err = corpus.ParseFiles(files, tok, corpus.ParseOptions{
		Workers: cfg.Index.Workers,
		Dedup:   cfg.Index.Dedup,
	}, consumer)
	if err != nil {
		log.Fatal(err)
	}

	docs := consumer.Collect()
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})

	for i, doc := range docs {
		if i == *samples {
			break
		}
		tokens := doc.Tokens
		if len(tokens) > 20 {
			tokens = tokens[:20]
		}
		fmt.Printf("doc %d: %d tokens, leading %v\n", doc.ID, len(doc.Tokens), tokens)
	}
}
