package legistar

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/opencivics/engage/internal/core/domain"
)

// Legistar renders its grids and detail tabs with Telerik controls,
// hence the rg* and rmp* class names.
const (
	tableClass  = "rgMasterTable"
	headerClass = "rgHeader"
	rowClass    = "rgRow"
	viewClass   = "rmpView"
)

// The site prints dates as 4/3/2023 and clock times as 2:00 PM.
const (
	dateLayout  = "1/2/2006"
	clockLayout = "3:04 PM"
)

func parsePage(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// findAll returns every descendant element with the given tag, in
// document order. An empty class matches any element of the tag.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if isElement(node, tag) && (class == "" || hasClass(node, class)) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func findFirst(n *html.Node, tag, class string) *html.Node {
	nodes := findAll(n, tag, class)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// nodeText concatenates all descendant text nodes.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// cleanText normalises text scraped from the site: non-breaking
// spaces become spaces, en and em dashes become hyphens.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u2013", "-")
	s = strings.ReplaceAll(s, "\u2014", "-")
	return strings.TrimSpace(s)
}

// cleanHeader normalises a table header or detail label for matching.
func cleanHeader(s string) string {
	s = cleanText(s)
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, ".", "")
	return strings.TrimSpace(strings.ToLower(s))
}

// hrefFromAnchor digs the target URL out of an anchor: the href when
// present, otherwise the radopen('url', ...) invocation buried in the
// onclick handler.
func hrefFromAnchor(n *html.Node) (string, bool) {
	href := strings.TrimSpace(strings.ReplaceAll(attrValue(n, "href"), "#", ""))
	if href != "" {
		return href, true
	}
	onclick := strings.TrimSpace(attrValue(n, "onclick"))
	if onclick == "" {
		return "", false
	}
	_, after, found := strings.Cut(onclick, "radopen('")
	if !found {
		return "", false
	}
	target, _, found := strings.Cut(after, "'")
	target = strings.TrimSpace(target)
	if !found || target == "" {
		return "", false
	}
	return target, true
}

func linkFromAnchor(n *html.Node, base *url.URL) (domain.Link, bool) {
	href, ok := hrefFromAnchor(n)
	if !ok {
		return domain.Link{}, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return domain.Link{}, false
	}
	return domain.Link{
		Name: cleanText(nodeText(n)),
		URL:  base.ResolveReference(ref).String(),
	}, true
}

// tableScraper culls structured data from a Legistar grid table. Cells
// are addressed by cleaned header name.
type tableScraper struct {
	base    *url.URL
	page    string
	table   *html.Node
	headers []string
	indexes map[string]int
}

func newTableScraper(root *html.Node, base *url.URL, page string) (*tableScraper, error) {
	table := findFirst(root, "table", tableClass)
	if table == nil {
		return nil, &domain.ParseError{Page: page, Detail: fmt.Sprintf("no table with class %q", tableClass)}
	}
	t := &tableScraper{base: base, page: page, table: table, indexes: make(map[string]int)}
	for i, th := range findAll(table, "th", headerClass) {
		header := cleanHeader(nodeText(th))
		t.headers = append(t.headers, header)
		t.indexes[header] = i
	}
	return t, nil
}

// requireHeaders checks the scraped headers exactly match the
// expected list, in order.
func (t *tableScraper) requireHeaders(expected []string) error {
	match := len(t.headers) == len(expected)
	for i := 0; match && i < len(expected); i++ {
		match = t.headers[i] == expected[i]
	}
	if !match {
		return &domain.ParseError{Page: t.page, Detail: fmt.Sprintf("unexpected headers %q", t.headers)}
	}
	return nil
}

func (t *tableScraper) rows() []*rowScraper {
	var rows []*rowScraper
	for _, tr := range findAll(t.table, "tr", rowClass) {
		rows = append(rows, &rowScraper{table: t, row: tr})
	}
	return rows
}

// rowScraper culls structured data from one grid row.
type rowScraper struct {
	table *tableScraper
	row   *html.Node
}

func (r *rowScraper) cell(header string) (*html.Node, error) {
	idx, ok := r.table.indexes[cleanHeader(header)]
	if !ok {
		return nil, &domain.ParseError{Page: r.table.page, Detail: fmt.Sprintf("no column %q", header)}
	}
	cells := findAll(r.row, "td", "")
	if idx >= len(cells) {
		return nil, &domain.ParseError{Page: r.table.page, Detail: fmt.Sprintf("row has %d cells, want column %d", len(cells), idx)}
	}
	return cells[idx], nil
}

func (r *rowScraper) text(header string) (string, error) {
	cell, err := r.cell(header)
	if err != nil {
		return "", err
	}
	cleaned := cleanText(nodeText(cell))
	if cleaned == "" {
		return "", &domain.ParseError{Page: r.table.page, Detail: fmt.Sprintf("empty cell under %q", header)}
	}
	return cleaned, nil
}

func (r *rowScraper) optionalText(header string) (string, error) {
	cell, err := r.cell(header)
	if err != nil {
		return "", err
	}
	return cleanText(nodeText(cell)), nil
}

func parseTableInt(text, page string) (int64, error) {
	text = strings.TrimSuffix(text, ".")
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, &domain.ParseError{Page: page, Detail: fmt.Sprintf("bad integer %q", text)}
	}
	return n, nil
}

func (r *rowScraper) integer(header string) (int64, error) {
	text, err := r.text(header)
	if err != nil {
		return 0, err
	}
	return parseTableInt(text, r.table.page)
}

func (r *rowScraper) optionalInteger(header string) (*int64, error) {
	text, err := r.optionalText(header)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	n, err := parseTableInt(text, r.table.page)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *rowScraper) date(header string) (time.Time, error) {
	text, err := r.text(header)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(dateLayout, text)
	if err != nil {
		return time.Time{}, &domain.ParseError{Page: r.table.page, Detail: fmt.Sprintf("bad date %q", text)}
	}
	return d, nil
}

// optionalClock parses a clock time cell. An empty cell or the word
// "canceled" yields nil.
func (r *rowScraper) optionalClock(header string) (*time.Time, error) {
	text, err := r.optionalText(header)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	clock, err := time.Parse(clockLayout, text)
	if err != nil {
		if strings.EqualFold(text, "canceled") {
			return nil, nil
		}
		return nil, &domain.ParseError{Page: r.table.page, Detail: fmt.Sprintf("bad time %q", text)}
	}
	return &clock, nil
}

func (r *rowScraper) link(header string) (domain.Link, error) {
	cell, err := r.cell(header)
	if err != nil {
		return domain.Link{}, err
	}
	a := findFirst(cell, "a", "")
	if a == nil {
		return domain.Link{}, &domain.ParseError{Page: r.table.page, Detail: fmt.Sprintf("no link under %q", header)}
	}
	l, ok := linkFromAnchor(a, r.table.base)
	if !ok {
		return domain.Link{}, &domain.ParseError{Page: r.table.page, Detail: fmt.Sprintf("no link target under %q", header)}
	}
	return l, nil
}

func (r *rowScraper) optionalLink(header string) (*domain.Link, error) {
	cell, err := r.cell(header)
	if err != nil {
		return nil, err
	}
	a := findFirst(cell, "a", "")
	if a == nil {
		return nil, nil
	}
	l, ok := linkFromAnchor(a, r.table.base)
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// detailScraper culls label/value runs from a page's details tab. The
// first rmpView div holds a flat sequence of spans, anchors and
// selected options; nodes whose text ends with a colon are labels and
// everything up to the next label is that label's values.
type detailScraper struct {
	base    *url.URL
	page    string
	details []*html.Node
	labels  []string
}

func newDetailScraper(root *html.Node, base *url.URL, page string) (*detailScraper, error) {
	views := findAll(root, "div", viewClass)
	if len(views) == 0 {
		return nil, &domain.ParseError{Page: page, Detail: fmt.Sprintf("no view with class %q", viewClass)}
	}
	d := &detailScraper{base: base, page: page, details: detailNodes(views[0])}
	for _, n := range d.details {
		if isLabel(n) {
			d.labels = append(d.labels, cleanHeader(nodeText(n)))
		}
	}
	return d, nil
}

// detailNodes flattens the view into its label and value nodes: every
// span, anchor and selected option inside the view's leading tables
// (the run of direct table children before the first div), in
// document order. Spans that wrap an anchor are skipped so the anchor
// itself is the value.
func detailNodes(view *html.Node) []*html.Node {
	var tables []*html.Node
	for c := view.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data == "div" {
			break
		}
		if c.Data == "table" {
			tables = append(tables, c)
		}
	}

	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "span":
				if len(findAll(n, "a", "")) == 0 {
					nodes = append(nodes, n)
				}
			case "a":
				nodes = append(nodes, n)
			case "option":
				if hasAttr(n, "selected") {
					nodes = append(nodes, n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, table := range tables {
		for c := table.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	return nodes
}

// isLabel reports whether a detail node looks like a label. Labels
// end with a colon, except one known label that does not.
func isLabel(n *html.Node) bool {
	text := strings.TrimSpace(nodeText(n))
	if strings.HasSuffix(text, ":") {
		return true
	}
	return strings.EqualFold(text, "current controlling legislative body")
}

// requireLabels checks that every required label is present. Extra
// labels are ignored.
func (d *detailScraper) requireLabels(required []string) error {
	have := make(map[string]bool, len(d.labels))
	for _, l := range d.labels {
		have[l] = true
	}
	for _, want := range required {
		if !have[want] {
			return &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("missing label %q", want)}
		}
	}
	return nil
}

func (d *detailScraper) hasLabel(label string) bool {
	clean := cleanHeader(label)
	for _, l := range d.labels {
		if l == clean {
			return true
		}
	}
	return false
}

// values returns the nodes between a label and the next label.
func (d *detailScraper) values(label string) ([]*html.Node, error) {
	clean := cleanHeader(label)
	idx := -1
	for i, n := range d.details {
		if isLabel(n) && cleanHeader(nodeText(n)) == clean {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("no label %q", label)}
	}
	var values []*html.Node
	for _, n := range d.details[idx+1:] {
		if isLabel(n) {
			break
		}
		values = append(values, n)
	}
	return values, nil
}

func (d *detailScraper) text(label string) (string, error) {
	values, err := d.values(label)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, cleanText(nodeText(v)))
	}
	joined := strings.TrimSpace(strings.Join(parts, " "))
	if joined == "" {
		return "", &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("no text for label %q", label)}
	}
	return joined, nil
}

func (d *detailScraper) optionalText(label string) string {
	text, err := d.text(label)
	if err != nil {
		return ""
	}
	return text
}

func (d *detailScraper) integer(label string) (int64, error) {
	text, err := d.text(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("bad integer %q", text)}
	}
	return n, nil
}

func (d *detailScraper) date(label string) (time.Time, error) {
	text, err := d.text(label)
	if err != nil {
		return time.Time{}, err
	}
	day, err := time.Parse(dateLayout, text)
	if err != nil {
		return time.Time{}, &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("bad date %q", text)}
	}
	return day, nil
}

func (d *detailScraper) optionalDate(label string) *time.Time {
	day, err := d.date(label)
	if err != nil {
		return nil
	}
	return &day
}

// dateAndOptionalClock splits a "4/3/2023 2:00 PM" value. The clock
// part is nil when the meeting is canceled.
func (d *detailScraper) dateAndOptionalClock(label string) (time.Time, *time.Time, error) {
	text, err := d.text(label)
	if err != nil {
		return time.Time{}, nil, err
	}
	datePart, clockPart, found := strings.Cut(text, " ")
	if !found {
		return time.Time{}, nil, &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("no time in %q", text)}
	}
	day, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return time.Time{}, nil, &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("bad date %q", datePart)}
	}
	clockPart = strings.TrimSpace(clockPart)
	if clockPart == "" || strings.EqualFold(clockPart, "canceled") {
		return day, nil, nil
	}
	clock, err := time.Parse(clockLayout, clockPart)
	if err != nil {
		return time.Time{}, nil, &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("bad time %q", clockPart)}
	}
	return day, &clock, nil
}

func (d *detailScraper) link(label string) (domain.Link, error) {
	values, err := d.values(label)
	if err != nil {
		return domain.Link{}, err
	}
	if len(values) != 1 {
		return domain.Link{}, &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("want 1 value for label %q, got %d", label, len(values))}
	}
	l, ok := linkFromAnchor(values[0], d.base)
	if !ok {
		return domain.Link{}, &domain.ParseError{Page: d.page, Detail: fmt.Sprintf("no link target for label %q", label)}
	}
	return l, nil
}

func (d *detailScraper) optionalLink(label string) *domain.Link {
	l, err := d.link(label)
	if err != nil {
		return nil
	}
	return &l
}

// links returns every linked value under a label. Values without a
// link target are dropped.
func (d *detailScraper) links(label string) ([]domain.Link, error) {
	values, err := d.values(label)
	if err != nil {
		return nil, err
	}
	var links []domain.Link
	for _, v := range values {
		if l, ok := linkFromAnchor(v, d.base); ok {
			links = append(links, l)
		}
	}
	return links, nil
}
