// Package search flattens the bookmark tree into records and ranks them
// against a query with fuzzy matching on name and URL.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/nt/internal/model"
)

const (
	// MaxResults caps the number of results returned by Search.
	MaxResults = 5
	// MinScore drops matches scoring below it.
	MinScore = -1000
	// URLBias is added to URL match scores so name matches rank first.
	URLBias = -20
)

// Key names the field a result matched on.
type Key string

const (
	KeyName Key = "name"
	KeyURL  Key = "url"
)

// Record is a searchable node with its ancestor folder names.
type Record struct {
	ID   string
	Name string
	Kind model.Kind
	URL  string
	Path []string // ancestor folder names, root excluded
}

// Result represents a fuzzy search match.
type Result struct {
	Record
	Score          int
	MatchedKey     Key
	MatchedIndexes []int
}

// Flatten lists every node below the synthetic root depth-first,
// folders included.
func Flatten(root *model.Node) []Record {
	var records []Record
	var walk func(n *model.Node, path []string)
	walk = func(n *model.Node, path []string) {
		for _, c := range n.Children() {
			records = append(records, Record{
				ID:   c.ID,
				Name: c.Name,
				Kind: c.Kind,
				URL:  c.URL,
				Path: path,
			})
			if c.IsFolder() {
				// Full slice expression so siblings never share a backing array
				walk(c, append(path[:len(path):len(path)], c.Name))
			}
		}
	}
	if root != nil {
		walk(root, []string{})
	}
	return records
}

// recordNames implements fuzzy.Source over record names.
type recordNames []Record

func (rn recordNames) String(i int) string {
	return rn[i].Name
}

func (rn recordNames) Len() int {
	return len(rn)
}

// bookmarkURLs implements fuzzy.Source over bookmark URLs only.
// idx maps a source position back to the record index.
type bookmarkURLs struct {
	records []Record
	idx     []int
}

func (bu bookmarkURLs) String(i int) string {
	return bu.records[bu.idx[i]].URL
}

func (bu bookmarkURLs) Len() int {
	return len(bu.idx)
}

// Search ranks records against query and returns at most MaxResults.
// Each record is scored by its best key. Ties are broken by name
// (case-insensitive), then ID. A blank query returns nothing.
func Search(query string, records []Record) []Result {
	query = strings.TrimSpace(query)
	if query == "" || len(records) == 0 {
		return nil
	}

	best := make(map[int]Result)
	consider := func(i int, score int, key Key, matched []int) {
		if score < MinScore {
			return
		}
		if cur, ok := best[i]; ok && cur.Score >= score {
			return
		}
		best[i] = Result{
			Record:         records[i],
			Score:          score,
			MatchedKey:     key,
			MatchedIndexes: matched,
		}
	}

	for _, m := range fuzzy.FindFrom(query, recordNames(records)) {
		consider(m.Index, m.Score, KeyName, m.MatchedIndexes)
	}

	urls := bookmarkURLs{records: records}
	for i, r := range records {
		if r.Kind == model.KindBookmark && r.URL != "" {
			urls.idx = append(urls.idx, i)
		}
	}
	for _, m := range fuzzy.FindFrom(query, urls) {
		consider(urls.idx[m.Index], m.Score+URLBias, KeyURL, m.MatchedIndexes)
	}

	results := make([]Result, 0, len(best))
	for _, r := range best {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}
