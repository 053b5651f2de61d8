package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(vocabCmd)
}

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Show the classification vocabulary in use",
	Long: `List the distinct categories, topics, and tags across the local
library, with usage counts. Useful for keeping new items consistent with
the existing classification.`,
	RunE: runVocab,
}

// vocabEntry is one vocabulary value and how many items use it.
type vocabEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type vocabResponse struct {
	Categories []vocabEntry `json:"categories"`
	Topics     []vocabEntry `json:"topics"`
	Tags       []vocabEntry `json:"tags"`
}

func runVocab(cmd *cobra.Command, args []string) error {
	items := mustLoadSnapshot()

	categories := map[string]int{}
	topics := map[string]int{}
	tags := map[string]int{}
	for _, it := range items {
		if it.Category != "" {
			categories[it.Category]++
		}
		if it.Topic != "" {
			topics[it.Topic]++
		}
		for _, tag := range it.Tags {
			tags[tag]++
		}
	}

	res := vocabResponse{
		Categories: sortedEntries(categories),
		Topics:     sortedEntries(topics),
		Tags:       sortedEntries(tags),
	}

	if humanOutput {
		printVocabSection("categories", res.Categories)
		printVocabSection("topics", res.Topics)
		printVocabSection("tags", res.Tags)
		return nil
	}
	return outputJSON(res)
}

// sortedEntries orders by count descending, then value for stability.
func sortedEntries(counts map[string]int) []vocabEntry {
	entries := make([]vocabEntry, 0, len(counts))
	for v, n := range counts {
		entries = append(entries, vocabEntry{Value: v, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	return entries
}

func printVocabSection(name string, entries []vocabEntry) {
	fmt.Printf("%s:\n", name)
	if len(entries) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, e := range entries {
		fmt.Printf("  %4d  %s\n", e.Count, e.Value)
	}
	fmt.Println()
}
