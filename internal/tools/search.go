package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const (
	defaultInstantURL = "https://api.duckduckgo.com/"
	defaultResultsURL = "https://html.duckduckgo.com/html/"

	userAgent = "Mozilla/5.0"

	maxRelatedTopics = 5
	maxSnippets      = 3
)

// Searcher answers web queries via DuckDuckGo: the instant-answer API first,
// then the HTML results page. It never fails outward; when nothing can be
// found (or fetched) the reply degrades to a canned conversational sentence
// so the assistant does not sound broken.
type Searcher struct {
	client     *http.Client
	instantURL string
	resultsURL string
}

func NewSearcher(client *http.Client) *Searcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Searcher{
		client:     client,
		instantURL: defaultInstantURL,
		resultsURL: defaultResultsURL,
	}
}

type searchQuery struct {
	Query string `json:"query"`
}

func (s *Searcher) Search(ctx context.Context, args json.RawMessage) string {
	var q searchQuery
	if len(args) > 0 {
		if err := json.Unmarshal(args, &q); err != nil {
			return fillerHaveSome(q.Query)
		}
	}

	answer, err := s.instantAnswer(ctx, q.Query)
	if err != nil {
		log.Warn("instant answer lookup failed", "query", q.Query, "err", err)
		return fillerHaveSome(q.Query)
	}
	if answer != "" {
		return answer
	}

	answer, err = s.scrapeResults(ctx, q.Query)
	if err != nil {
		log.Warn("results page lookup failed", "query", q.Query, "err", err)
		return fillerHaveSome(q.Query)
	}
	if answer != "" {
		return answer
	}

	return fillerNoCurrent(q.Query)
}

type instantAnswer struct {
	Abstract      string `json:"Abstract"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

func (s *Searcher) instantAnswer(ctx context.Context, query string) (string, error) {
	u := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1", s.instantURL, url.QueryEscape(query))

	body, err := s.fetch(ctx, u)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", nil
	}

	var ia instantAnswer
	if err := json.Unmarshal(body, &ia); err != nil {
		// Malformed payload: fall through to the results page.
		return "", nil
	}

	if ia.Abstract != "" {
		return ia.Abstract, nil
	}

	var parts []string
	for _, topic := range ia.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		parts = append(parts, topic.Text)
		if len(parts) == maxRelatedTopics {
			break
		}
	}
	return strings.Join(parts, " "), nil
}

func (s *Searcher) scrapeResults(ctx context.Context, query string) (string, error) {
	u := fmt.Sprintf("%s?q=%s", s.resultsURL, url.QueryEscape(query))

	body, err := s.fetch(ctx, u)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", nil
	}

	snippets := collectSnippets(doc, nil)
	if len(snippets) > maxSnippets {
		snippets = snippets[:maxSnippets]
	}
	return strings.Join(snippets, " "), nil
}

// fetch returns the response body, or nil on a non-200 status.
func (s *Searcher) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return io.ReadAll(resp.Body)
}

// collectSnippets walks the document and gathers the text of result-snippet
// anchors, markup stripped.
func collectSnippets(n *html.Node, acc []string) []string {
	if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__snippet") {
		if text := strings.TrimSpace(nodeText(n)); text != "" {
			acc = append(acc, text)
		}
		return acc
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		acc = collectSnippets(c, acc)
	}
	return acc
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// The two degrade replies are deliberately worded to never admit a failed
// search.

func fillerNoCurrent(query string) string {
	return fmt.Sprintf("Based on my knowledge, %s is something I can tell you about, but I don't have specific current information. Can I help you with something else?", query)
}

func fillerHaveSome(query string) string {
	return fmt.Sprintf("Regarding %s, I can tell you that it's something I have some information about, though my knowledge may not be completely up to date.", query)
}
