package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"

	"boolsearch/pkg/config"
	"boolsearch/pkg/engine"
)

var suggestions = []prompt.Suggest{
	{Text: "1", Description: "conjunctive: docs containing ALL keywords"},
	{Text: "2", Description: "disjunctive: docs containing ANY keyword"},
	{Text: "3", Description: "wildcard: begin*end via the bigram index"},
	{Text: "exit", Description: "quit"},
}

func completer(d prompt.Document) []prompt.Suggest {
	if d.TextBeforeCursor() != d.GetWordBeforeCursor() {
		// Only complete the leading query-type token.
		return nil
	}
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}

type repl struct {
	ng   *engine.Engine
	done chan struct{}
}

func (r *repl) execute(line string) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return
	case "exit", "quit":
		close(r.done)
		return
	}

	typeArg, query, _ := strings.Cut(line, " ")
	qt, err := engine.ParseQueryType(typeArg)
	if err != nil {
		fmt.Println(err)
		return
	}

	start := time.Now()
	docs, err := r.ng.Process(qt, query)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(docs)
	fmt.Printf("%s query: %d docs in %v\n", qt, len(docs), time.Since(start))
}

func main() {
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Engine initialization started...")
	ng, err := engine.NewEngine(cfg.Index.OutputDir, cfg.Engine)
	if err != nil {
		log.Fatal(err)
	}
	defer ng.Close()
	log.Println("Engine initialization completed...")

	stats := ng.Stats()
	fmt.Printf("boolsearch: %d docs, %d terms, %d bigram keys, built %s\n",
		stats.Docs, stats.Terms, stats.Bigrams, stats.BuiltAt.Format(time.RFC3339))
	fmt.Println(`Enter "<QUERY_TYPE> <QUERY>", e.g. 1 people AND car. Type exit to quit.`)

	r := &repl{
		ng:   ng,
		done: make(chan struct{}),
	}
	p := prompt.New(r.execute, completer,
		prompt.OptionTitle("boolsearch"),
		prompt.OptionPrefix("query> "),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			select {
			case <-r.done:
				return true
			default:
				return false
			}
		}),
	)
	p.Run()
}
