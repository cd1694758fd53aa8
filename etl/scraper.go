package etl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// trailingID pulls the numeric id off the end of a directory profile URL,
// e.g. /postgraduate/professors/142 or profesor.php?id=142.
var trailingID = regexp.MustCompile(`(\d+)/?$`)

// ScrapedProfessor is one faculty entry pulled from the department
// directory.
type ScrapedProfessor struct {
	SourceID   int32  `json:"source_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Laboratory string `json:"laboratory,omitempty"`
	ProfileURL string `json:"profile_url"`
}

// Scraper pulls faculty data from the department website so the corpus can
// be seeded without manual entry.
type Scraper struct {
	client      *http.Client
	baseURL     string
	concurrency int
}

// ScraperOption tunes the scraper.
type ScraperOption func(*Scraper)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) ScraperOption {
	return func(s *Scraper) { s.client = client }
}

// WithConcurrency bounds how many profile pages are fetched at once.
func WithConcurrency(n int) ScraperOption {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewScraper creates a scraper rooted at the department directory URL.
func NewScraper(baseURL string, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		client:      &http.Client{Timeout: 30 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeProfessors fetches the directory listing, collects every profile
// link that ends in a numeric id, then fetches the profiles concurrently to
// fill in email and laboratory. Results come back ordered by source id.
func (s *Scraper) ScrapeProfessors(ctx context.Context, listingPath string) ([]*ScrapedProfessor, error) {
	doc, err := s.fetchDocument(ctx, s.resolve(listingPath))
	if err != nil {
		return nil, errors.Wrap(err, "fetch directory listing")
	}

	seen := make(map[int32]bool)
	var professors []*ScrapedProfessor
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		match := trailingID.FindStringSubmatch(href)
		if match == nil {
			return
		}
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}
		id64, err := strconv.ParseInt(match[1], 10, 32)
		if err != nil || seen[int32(id64)] {
			return
		}
		seen[int32(id64)] = true
		professors = append(professors, &ScrapedProfessor{
			SourceID:   int32(id64),
			Name:       name,
			ProfileURL: s.resolve(href),
		})
	})
	if len(professors) == 0 {
		return nil, errors.Errorf("no professor links found at %s", s.resolve(listingPath))
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	var mu sync.Mutex
	failed := 0
	for _, professor := range professors {
		group.Go(func() error {
			if err := s.fillProfile(groupCtx, professor); err != nil {
				// A broken profile page keeps the listing entry usable.
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if failed > 0 && failed == len(professors) {
		return nil, errors.Errorf("all %d profile fetches failed", failed)
	}

	sort.Slice(professors, func(a, b int) bool {
		return professors[a].SourceID < professors[b].SourceID
	})
	return professors, nil
}

func (s *Scraper) fillProfile(ctx context.Context, professor *ScrapedProfessor) error {
	doc, err := s.fetchDocument(ctx, professor.ProfileURL)
	if err != nil {
		return err
	}

	doc.Find("a[href^='mailto:']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		professor.Email = strings.TrimPrefix(href, "mailto:")
		return false
	})
	for _, selector := range []string{".laboratory", ".lab-name", "[data-lab]"} {
		if lab := strings.TrimSpace(doc.Find(selector).First().Text()); lab != "" {
			professor.Laboratory = lab
			break
		}
	}
	return nil
}

func (s *Scraper) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", rawURL)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", rawURL)
	}
	return doc, nil
}

func (s *Scraper) resolve(href string) string {
	parsed, err := url.Parse(href)
	if err == nil && parsed.IsAbs() {
		return href
	}
	return fmt.Sprintf("%s/%s", s.baseURL, strings.TrimLeft(href, "/"))
}
