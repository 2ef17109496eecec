// Package culler finds shortlink URLs that no longer resolve.
package culler

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/sl/internal/model"
	"golang.org/x/sync/errgroup"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result holds the check result for one URL of a shortlink.
type Result struct {
	Name       string // shortlink name
	URL        string
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // Error message for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
// completed is the number of URLs checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// Options tune a check run.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains lists domains where 404s should be treated as
	// "possibly private" instead of dead.
	ExcludeDomains []string
	OnProgress     ProgressFunc
	Client         *http.Client // optional
}

// CheckShortlinks checks every URL of every shortlink concurrently.
// Results keep the order of links and of each link's URLs. A cancelled
// ctx reports the remaining URLs as unreachable.
func CheckShortlinks(ctx context.Context, links []model.Shortlink, opts Options) []Result {
	var results []Result
	for _, l := range links {
		for _, u := range l.URLs {
			results = append(results, Result{Name: l.Name, URL: u})
		}
	}
	if len(results) == 0 {
		return nil
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses, etc.)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	excludeMap := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	var progressMu sync.Mutex
	completed := 0

	g := new(errgroup.Group)
	g.SetLimit(max(opts.Concurrency, 1))
	for i := range results {
		g.Go(func() error {
			checkURL(ctx, client, &results[i], excludeMap)

			if opts.OnProgress != nil {
				progressMu.Lock()
				completed++
				opts.OnProgress(completed, len(results))
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// checkURL fills in the status of result.
func checkURL(ctx context.Context, client *http.Client, result *Result, excludeMap map[string]bool) {
	// Try HEAD first, fall back to GET for servers that don't support it.
	resp, err := do(ctx, client, http.MethodHead, result.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = do(ctx, client, http.MethodGet, result.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(result.URL, excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 500, 403 and friends may be temporary or need auth.
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain checks if the URL's host is an excluded domain or one
// of its subdomains.
func isExcludedDomain(rawURL string, excludeMap map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if excludeMap[host] {
		return true
	}
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	case strings.Contains(lower, "unsupported protocol scheme"):
		return "Not an http(s) URL"
	default:
		return errStr
	}
}

// DeadURLs groups the dead URLs of results by shortlink name.
func DeadURLs(results []Result) map[string][]string {
	dead := make(map[string][]string)
	for _, r := range results {
		if r.Status == Dead {
			dead[r.Name] = append(dead[r.Name], r.URL)
		}
	}
	return dead
}

// Without returns urls minus the ones in drop, keeping order.
func Without(urls, drop []string) []string {
	skip := make(map[string]bool, len(drop))
	for _, u := range drop {
		skip[u] = true
	}
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !skip[u] {
			out = append(out, u)
		}
	}
	return out
}
