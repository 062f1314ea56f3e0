package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/browser")

type Options struct {
	Headless bool
	// Bin is the chromium binary, when empty one is looked up or downloaded.
	Bin string
	// Idle is how long the network must be quiet before the page counts
	// as loaded.
	Idle time.Duration
}

func DefaultOptions() Options {
	return Options{
		Headless: true,
		Idle:     3 * time.Second,
	}
}

type Capture struct {
	URL    string
	Title  string
	HTML   string
	Assets []string
}

var assetExtensions = []string{
	".js", ".wasm", ".data", ".framework", ".loader",
	".unity3d", ".unityweb", ".br", ".json", ".bin",
}

// IsGameAsset reports whether a response URL looks like a file a game
// loads at runtime.
func IsGameAsset(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return ext != "" && slices.Contains(assetExtensions, ext)
}

func launch(opts Options) (string, *launcher.Launcher, error) {
	l := launcher.New().Headless(opts.Headless)
	bin := opts.Bin
	if bin == "" {
		if found, ok := launcher.LookPath(); ok {
			bin = found
		}
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return "", nil, fmt.Errorf("launch chromium: %w", err)
	}
	return controlURL, l, nil
}

// Run loads pageURL in chromium and returns the rendered page together
// with every game asset the page requested while loading.
func Run(ctx context.Context, pageURL string, opts Options) (Capture, error) {
	ctx, span := tracer.Start(ctx, "Capture")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageURL))

	capture, err := run(ctx, pageURL, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Capture{}, err
	}
	span.SetAttributes(attribute.Int("assets", len(capture.Assets)))
	return capture, nil
}

func run(ctx context.Context, pageURL string, opts Options) (Capture, error) {
	if opts.Idle <= 0 {
		opts.Idle = DefaultOptions().Idle
	}

	controlURL, l, err := launch(opts)
	if err != nil {
		return Capture{}, err
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	err = browser.Connect()
	if err != nil {
		return Capture{}, fmt.Errorf("connect to chromium: %w", err)
	}
	defer func() {
		closeErr := browser.Close()
		if closeErr != nil {
			slog.DebugContext(ctx, "close chromium", "err", closeErr)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return Capture{}, fmt.Errorf("open page: %w", err)
	}
	page = page.Context(ctx)

	err = proto.NetworkEnable{}.Call(page)
	if err != nil {
		return Capture{}, fmt.Errorf("enable network events: %w", err)
	}

	var (
		mu     sync.Mutex
		seen   = map[string]struct{}{}
		assets []string
	)
	listenCtx, stopListening := context.WithCancel(ctx)
	defer stopListening()
	go page.Context(listenCtx).EachEvent(func(ev *proto.NetworkResponseReceived) {
		if ev.Response == nil || !IsGameAsset(ev.Response.URL) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if _, ok := seen[ev.Response.URL]; ok {
			return
		}
		seen[ev.Response.URL] = struct{}{}
		assets = append(assets, ev.Response.URL)
	})()

	waitIdle := page.WaitRequestIdle(opts.Idle, nil, nil, nil)
	err = page.Navigate(pageURL)
	if err != nil {
		return Capture{}, fmt.Errorf("navigate: %w", err)
	}
	err = page.WaitLoad()
	if err != nil {
		return Capture{}, fmt.Errorf("wait for load: %w", err)
	}
	waitIdle()

	html, err := page.HTML()
	if err != nil {
		return Capture{}, fmt.Errorf("read html: %w", err)
	}
	title := ""
	info, err := page.Info()
	if err == nil {
		title = info.Title
	}

	mu.Lock()
	out := slices.Clone(assets)
	mu.Unlock()
	slices.Sort(out)

	slog.DebugContext(ctx, "captured page", "url", pageURL, "assets", len(out))
	return Capture{
		URL:    pageURL,
		Title:  title,
		HTML:   html,
		Assets: out,
	}, nil
}

// Available reports whether a local chromium binary can be found without
// downloading one.
func Available(opts Options) bool {
	if opts.Bin != "" {
		return true
	}
	_, ok := launcher.LookPath()
	return ok
}
