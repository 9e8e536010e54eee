// Package exporter writes the bookmark tree as Netscape bookmark HTML.
package exporter

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/nt/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath(now time.Time) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", now.Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// Stats counts exported nodes.
type Stats struct {
	Folders   int
	Bookmarks int
}

// ExportHTML renders the children of the first vendor root.
func ExportHTML(roots []model.BrowserNode) string {
	var b strings.Builder
	_, _ = WriteHTML(&b, roots)
	return b.String()
}

// WriteHTML writes the children of the first vendor root to w in vendor order.
func WriteHTML(w io.Writer, roots []model.BrowserNode) (Stats, error) {
	var b strings.Builder
	var st Stats

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	if len(roots) > 0 {
		writeItems(&b, roots[0].Children, 1, &st)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	_, err := io.WriteString(w, b.String())
	return st, err
}

// writeItems recursively writes nodes at one level.
func writeItems(b *strings.Builder, nodes []model.BrowserNode, indent int, st *Stats) {
	prefix := strings.Repeat("    ", indent)

	for _, n := range nodes {
		if n.IsFolder() {
			st.Folders++
			fmt.Fprintf(b, "%s<DT><H3%s>%s</H3>\n", prefix, addDate(n), html.EscapeString(n.Title))
			fmt.Fprintf(b, "%s<DL><p>\n", prefix)
			writeItems(b, n.Children, indent+1, st)
			fmt.Fprintf(b, "%s</DL><p>\n", prefix)
			continue
		}

		st.Bookmarks++
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\"%s>%s</A>\n",
			prefix,
			html.EscapeString(n.URL),
			addDate(n),
			html.EscapeString(n.Title),
		)
	}
}

// addDate renders the ADD_DATE attribute in unix seconds, if known.
func addDate(n model.BrowserNode) string {
	if n.DateAdded <= 0 {
		return ""
	}
	return fmt.Sprintf(" ADD_DATE=\"%d\"", n.DateAdded/1000)
}
