// Package linkcheck finds the links in Markdown text and checks that they
// can be reached.
package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/scriv/internal/logger"
)

const (
	// DefaultTimeout bounds each link check.
	DefaultTimeout = 60 * time.Second
	// DefaultConcurrency is how many links are checked at once.
	DefaultConcurrency = 8
)

// FindLinks returns the URLs linked from markdown, first occurrence order,
// without duplicates. Email autolinks are not included.
func FindLinks(markdown string) []string {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	seen := make(map[string]bool)
	var links []string
	add := func(url string) {
		if url != "" && !seen[url] {
			seen[url] = true
			links = append(links, url)
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			add(string(node.Destination))
		case *ast.AutoLink:
			if node.AutoLinkType == ast.AutoLinkURL {
				add(string(node.URL(src)))
			}
		}
		return ast.WalkContinue, nil
	})
	return links
}

// Failure is a link that couldn't be reached.
type Failure struct {
	URL    string
	Status int
	Err    error
}

func (f Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("failed check for %q: %v", f.URL, f.Err)
	}
	return fmt.Sprintf("failed check for %q: status code %d", f.URL, f.Status)
}

// Checker checks links with HEAD requests.
type Checker struct {
	client      *resty.Client
	log         logger.Logger
	concurrency int
}

// Option configures a Checker.
type Option func(*Checker)

// WithConcurrency sets how many links are checked at once.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		c.client.SetTimeout(d)
	}
}

// New returns a Checker that logs through log.
func New(log logger.Logger, opts ...Option) *Checker {
	if log == nil {
		log = logger.Nop()
	}
	c := &Checker{
		client: resty.New().
			SetTimeout(DefaultTimeout).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)),
		log:         log,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckMarkdown checks every link in markdown. Unreachable links are logged
// as warnings and returned; the check itself never fails.
func (c *Checker) CheckMarkdown(ctx context.Context, markdown string) []Failure {
	return c.Check(ctx, FindLinks(markdown))
}

// Check checks urls in parallel and returns the failures in urls order.
func (c *Checker) Check(ctx context.Context, urls []string) []Failure {
	results := make([]*Failure, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, url := range urls {
		g.Go(func() error {
			results[i] = c.checkOne(gctx, url)
			return nil
		})
	}
	_ = g.Wait()

	var failures []Failure
	for _, f := range results {
		if f != nil {
			failures = append(failures, *f)
		}
	}
	return failures
}

func (c *Checker) checkOne(ctx context.Context, url string) *Failure {
	resp, err := c.client.R().SetContext(ctx).Head(url)
	if err != nil {
		f := &Failure{URL: url, Err: err}
		c.log.Warn(f.Error())
		return f
	}
	if resp.StatusCode() != http.StatusOK {
		f := &Failure{URL: url, Status: resp.StatusCode()}
		c.log.Warn(f.Error())
		return f
	}
	c.log.Debug("OK link", "url", url)
	return nil
}
