package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"gamecatalog/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Options struct {
	UserAgent string
	Timeout   time.Duration
	// <= 0 disables rate limiting
	RequestsPerSecond float64
	CacheSize         int
	CacheTTL          time.Duration
	// progress bars are written here, nil disables them
	Progress io.Writer
	// full HTTP messages are dumped here when debug logging is enabled
	Dump restyutil.InstrumentOutput
}

type Client struct {
	http     *resty.Client
	cache    *expirable.LRU[string, Page]
	progress io.Writer
}

type Page struct {
	URL         string
	FinalURL    string
	Status      int
	ContentType string
	Body        []byte
}

func (p Page) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
}

func (p Page) String() string {
	return string(p.Body)
}

// Base is the URL relative references in the page resolve against.
func (p Page) Base() (*url.URL, error) {
	if p.FinalURL != "" {
		return url.Parse(p.FinalURL)
	}
	return url.Parse(p.URL)
}

func New(opts Options) (*Client, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute * 10
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept", "*/*")
	client.SetTimeout(opts.Timeout)

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		// max burst >= 1 just means that no requests will be dropped
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	restyutil.InstrumentClient(client, tracer, opts.Dump)

	return &Client{
		http:     client,
		cache:    expirable.NewLRU[string, Page](opts.CacheSize, nil, opts.CacheTTL),
		progress: opts.Progress,
	}, nil
}

func cacheKey(rawURL string) string {
	normalized, err := purell.NormalizeURLString(
		rawURL,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	if err != nil {
		return rawURL
	}
	return normalized
}

// StatusError is returned when a server answers with a non 2xx status.
type StatusError struct {
	URL    string
	Status int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Status)
}

// decodeBody undoes a content encoding the transport left in place, which
// happens once an accept-encoding header is set explicitly.
func decodeBody(res *resty.Response) ([]byte, error) {
	body := res.Body()
	if res.RawResponse != nil && res.RawResponse.Uncompressed {
		return body, nil
	}
	switch strings.ToLower(res.Header().Get("content-encoding")) {
	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	}
	return body, nil
}

// GetPage fetches a page, answering repeated requests for the same
// (normalized) URL from an in-memory cache.
func (c *Client) GetPage(ctx context.Context, pageURL string) (Page, error) {
	ctx, span := tracer.Start(ctx, "GetPage")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageURL))

	key := cacheKey(pageURL)
	if cached, ok := c.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cached", true))
		return cached, nil
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return Page{}, err
	}
	if !res.IsSuccess() {
		err := StatusError{URL: pageURL, Status: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		return Page{}, err
	}

	body, err := decodeBody(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode body")
		return Page{}, fmt.Errorf("decode %s: %w", pageURL, err)
	}

	page := Page{
		URL:         pageURL,
		FinalURL:    pageURL,
		Status:      res.StatusCode(),
		ContentType: res.Header().Get("content-type"),
		Body:        body,
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		page.FinalURL = res.RawResponse.Request.URL.String()
	}
	c.cache.Add(key, page)
	return page, nil
}

func (c *Client) GetJSON(ctx context.Context, jsonURL string, out any) error {
	ctx, span := tracer.Start(ctx, "GetJSON")
	defer span.End()
	span.SetAttributes(attribute.String("url", jsonURL))

	res, err := c.http.R().
		SetContext(ctx).
		Get(jsonURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch json")
		return err
	}
	if !res.IsSuccess() {
		err := StatusError{URL: jsonURL, Status: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	body, err := decodeBody(res)
	if err != nil {
		return fmt.Errorf("decode %s: %w", jsonURL, err)
	}
	err = json.Unmarshal(body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal json")
		return fmt.Errorf("parse %s: %w", jsonURL, err)
	}
	return nil
}
