package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"boolsearch/pkg/config"
	"boolsearch/pkg/engine"
)

const usage = "usage: query [-config path] <QUERY_TYPE> <QUERY>"

// run validates the positional arguments, loads the artifacts and
// evaluates one query. Argument errors surface before any file is
// touched.
func run(configPath string, args []string) ([]int, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: want <QUERY_TYPE> <QUERY>, got %d argument(s)",
			engine.ErrMissingArgument, len(args))
	}
	qt, err := engine.ParseQueryType(args[0])
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	ng, err := engine.NewEngine(cfg.Index.OutputDir, cfg.Engine)
	if err != nil {
		return nil, err
	}
	defer ng.Close()

	return ng.Process(qt, args[1])
}

func main() {
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	docs, err := run(*configPath, flag.Args())
	if err != nil {
		if errors.Is(err, engine.ErrMissingArgument) {
			log.Println(usage)
		}
		log.Fatal(err)
	}

	fmt.Println(docs)
}
