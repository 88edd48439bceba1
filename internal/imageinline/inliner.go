// Package imageinline replaces remote image URLs in slide content with
// base64 data URIs so exported slides never depend on the network.
package imageinline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/logger"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
)

// DefaultKeys are the content keys whose string or string-array values are
// treated as image sources, at any nesting depth.
var DefaultKeys = []string{"profileImage", "icon", "logos", "image"}

// Options tunes fetching.
type Options struct {
	Timeout     time.Duration
	Concurrency int
	CacheTTL    time.Duration
	// Interval is the minimum spacing between request starts.
	Interval time.Duration
	MaxBytes int64
	Client   *http.Client
	Logger   *logger.Logger
	Keys     []string
}

// Stats summarises an inlining pass.
type Stats struct {
	Converted int
	Failed    int
}

// Inliner fetches and caches remote images.
type Inliner struct {
	client      *http.Client
	limiter     *rate.Limiter
	cache       *cache.Cache
	concurrency int
	maxBytes    int64
	keys        map[string]bool
	log         *logger.Logger
}

// New returns an Inliner with defaults filled in for zero options.
func New(opts Options) *Inliner {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 << 20
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	keys := make(map[string]bool)
	for _, k := range DefaultKeys {
		keys[k] = true
	}
	for _, k := range opts.Keys {
		keys[k] = true
	}

	return &Inliner{
		client:      client,
		limiter:     rate.NewLimiter(rate.Every(opts.Interval), 2),
		cache:       cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		concurrency: opts.Concurrency,
		maxBytes:    opts.MaxBytes,
		keys:        keys,
		log:         log.WithComponent("imageinline"),
	}
}

// ImageKeys lists the keys of every image and icon-grid field declared by
// the registry's themes.
func ImageKeys(reg *theme.Registry) []string {
	seen := map[string]bool{}
	for _, th := range reg.List() {
		for _, variants := range th.Variants {
			for _, v := range variants {
				for _, f := range v.Editor.Fields {
					if f.Kind == schema.KindImage || f.Kind == schema.KindIconGrid {
						seen[f.Key] = true
					}
				}
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isRemote matches the sources worth fetching.
func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// DataURI fetches url and encodes it as a data URI. Non-image payloads and
// non-2xx responses are errors.
func (in *Inliner) DataURI(ctx context.Context, url string) (string, error) {
	if cached, ok := in.cache.Get(url); ok {
		return cached.(string), nil
	}
	if err := in.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := in.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, in.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > in.maxBytes {
		return "", fmt.Errorf("fetch %s: image exceeds %d bytes", url, in.maxBytes)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("fetch %s: not an image (%s)", url, mime.String())
	}

	uri := "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	in.cache.Set(url, uri, cache.DefaultExpiration)
	return uri, nil
}

// Content returns c with every remote image source under a known key
// replaced by its data URI. Sources that fail to fetch are kept as they are.
func (in *Inliner) Content(ctx context.Context, c carousel.Content) (carousel.Content, Stats, error) {
	out, stats, err := in.contents(ctx, []carousel.Content{c})
	if err != nil {
		return c, stats, err
	}
	return out[0], stats, nil
}

// Project inlines images on a copy of p.
func (in *Inliner) Project(ctx context.Context, p *carousel.Project) (*carousel.Project, Stats, error) {
	out := p.Clone()
	contents := make([]carousel.Content, len(out.Slides))
	for i, slide := range out.Slides {
		contents[i] = slide.Content
	}

	converted, stats, err := in.contents(ctx, contents)
	if err != nil {
		return nil, stats, err
	}
	for i := range out.Slides {
		out.Slides[i].Content = converted[i]
	}
	in.log.WithFields(map[string]any{"converted": stats.Converted, "failed": stats.Failed}).Info("images inlined")
	return out, stats, nil
}

func (in *Inliner) contents(ctx context.Context, contents []carousel.Content) ([]carousel.Content, Stats, error) {
	decoded := make([]map[string]any, len(contents))
	urls := map[string]bool{}
	for i, c := range contents {
		values := make(map[string]any, len(c.Fields))
		for key, raw := range c.Fields {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, Stats{}, fmt.Errorf("decode field %q: %w", key, err)
			}
			values[key] = v
			in.collect(key, v, urls)
		}
		decoded[i] = values
	}

	resolved, stats, err := in.fetchAll(ctx, urls)
	if err != nil {
		return nil, stats, err
	}

	out := make([]carousel.Content, len(contents))
	for i, c := range contents {
		fields := c.Fields.Clone()
		for key, v := range decoded[i] {
			rewritten, changed := in.rewrite(key, v, resolved)
			if !changed {
				continue
			}
			if err := fields.Set(key, rewritten); err != nil {
				return nil, stats, err
			}
		}
		out[i] = carousel.NewContent(c.Type, fields)
	}
	return out, stats, nil
}

// collect walks v and records remote sources found under image keys.
func (in *Inliner) collect(key string, v any, urls map[string]bool) {
	switch val := v.(type) {
	case string:
		if in.keys[key] && isRemote(val) {
			urls[val] = true
		}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				if in.keys[key] && isRemote(s) {
					urls[s] = true
				}
				continue
			}
			in.collect("", item, urls)
		}
	case map[string]any:
		for k, item := range val {
			in.collect(k, item, urls)
		}
	}
}

// rewrite mirrors collect, substituting resolved sources.
func (in *Inliner) rewrite(key string, v any, resolved map[string]string) (any, bool) {
	switch val := v.(type) {
	case string:
		if in.keys[key] {
			if uri, ok := resolved[val]; ok {
				return uri, true
			}
		}
		return val, false
	case []any:
		changed := false
		out := make([]any, len(val))
		for i, item := range val {
			var c bool
			if s, ok := item.(string); ok {
				out[i], c = in.rewrite(key, s, resolved)
			} else {
				out[i], c = in.rewrite("", item, resolved)
			}
			changed = changed || c
		}
		return out, changed
	case map[string]any:
		changed := false
		out := make(map[string]any, len(val))
		for k, item := range val {
			var c bool
			out[k], c = in.rewrite(k, item, resolved)
			changed = changed || c
		}
		return out, changed
	default:
		return v, false
	}
}

// fetchAll resolves every url concurrently. Failed fetches are logged and
// left out of the result; only cancellation is returned as an error.
func (in *Inliner) fetchAll(ctx context.Context, urls map[string]bool) (map[string]string, Stats, error) {
	var (
		mu       sync.Mutex
		resolved = make(map[string]string, len(urls))
		stats    Stats
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(in.concurrency)
	for url := range urls {
		eg.Go(func() error {
			uri, err := in.DataURI(egCtx, url)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				stats.Failed++
				in.log.WithFields(map[string]any{"url": url, "error": err.Error()}).Warn("keeping original image url")
				return nil
			}
			resolved[url] = uri
			stats.Converted++
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, stats, err
	}
	return resolved, stats, nil
}
