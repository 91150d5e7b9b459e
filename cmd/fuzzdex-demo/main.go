// fuzzdex-demo walks through the engine API: index a handful of documents,
// run exact and fuzzy queries, and print stats.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fuzzdex/fuzzdex"
	"github.com/fuzzdex/fuzzdex/pkg/logger"
)

func main() {
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()
	logger.Setup(*level, "text")

	eng, err := fuzzdex.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	eng.AddDocument(1, fuzzdex.Document{
		Title: "The Go Programming Language",
		Tag:   "books",
		Body:  "an introduction to programming in go",
	})
	eng.AddDocument(2, fuzzdex.Document{
		Title: "Programming Pearls",
		Tag:   "books",
		Body:  "classic essays on program design",
	})
	eng.AddDocument(3, fuzzdex.Document{
		Title: "Release Notes",
		Tag:   "docs",
		Body:  "changes in the latest release of the search engine",
	})

	for _, query := range []string{
		"programming language", // clean match
		"progamming pearls",    // typo, handled by fuzzy reranking
		"search engine",
	} {
		results := eng.Search(query, 5)
		fmt.Printf("query %q:\n", query)
		if len(results) == 0 {
			fmt.Println("  no results")
			continue
		}
		for _, r := range results {
			raw, _ := eng.Get(r.Doc)
			fmt.Printf("  doc %d  score %.3f  %s\n", r.Doc, r.Score, raw)
		}
	}

	st := eng.Stats()
	fmt.Printf("\nindex: %d documents, %d trigrams, %d postings\n",
		st.Documents, st.Trigrams, st.Postings)
}
