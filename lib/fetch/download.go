package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/schollz/progressbar/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

func newBar(w io.Writer, size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Download streams url into the file at dest, creating parent directories
// as needed, and returns the number of bytes written. A progress bar is
// shown when the client has a progress writer. On failure no partial file
// is left behind.
func (c *Client) Download(ctx context.Context, url, dest string) (int64, error) {
	return c.download(ctx, url, dest, c.progress != nil)
}

func (c *Client) download(ctx context.Context, url, dest string, showProgress bool) (int64, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", url),
		attribute.String("dest", dest),
	)

	fail := func(err error) (int64, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		failedDownloads.Add(ctx, 1)
		return 0, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return fail(err)
	}
	body := res.RawBody()
	defer body.Close()
	if !res.IsSuccess() {
		return fail(StatusError{URL: url, Status: res.StatusCode()})
	}

	var reader io.Reader = body
	size := res.RawResponse.ContentLength
	if !res.RawResponse.Uncompressed {
		switch strings.ToLower(res.Header().Get("content-encoding")) {
		case "br":
			reader = brotli.NewReader(body)
			size = -1
		case "gzip":
			gz, err := gzip.NewReader(body)
			if err != nil {
				return fail(err)
			}
			defer gz.Close()
			reader = gz
			size = -1
		}
	}

	err = os.MkdirAll(filepath.Dir(dest), 0755)
	if err != nil {
		return fail(err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fail(err)
	}

	var w io.Writer = f
	if showProgress {
		w = io.MultiWriter(f, newBar(c.progress, size, filepath.Base(dest)))
	}
	n, err := io.Copy(w, reader)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return fail(fmt.Errorf("download %s: %w", url, err))
	}

	downloadedBytes.Add(ctx, n)
	span.SetAttributes(attribute.Int64("bytes", n))
	slog.DebugContext(ctx, "downloaded", "url", url, "dest", dest, "bytes", n)
	return n, nil
}

type Job struct {
	URL  string
	Dest string
}

type JobResult struct {
	Job
	Bytes int64
	Err   error
}

// DownloadAll downloads jobs with at most parallelism transfers in flight.
// A failing job does not stop the others; results are in job order.
func (c *Client) DownloadAll(ctx context.Context, jobs []Job, parallelism int) []JobResult {
	ctx, span := tracer.Start(ctx, "DownloadAll")
	defer span.End()
	span.SetAttributes(attribute.Int("jobs", len(jobs)))

	if parallelism <= 0 {
		parallelism = 4
	}

	var bar *progressbar.ProgressBar
	if c.progress != nil && len(jobs) > 0 {
		bar = progressbar.NewOptions(
			len(jobs),
			progressbar.OptionSetWriter(c.progress),
			progressbar.OptionSetDescription("assets"),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(c.progress, "\n")
			}),
		)
	}

	results := make([]JobResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, job := range jobs {
		g.Go(func() error {
			n, err := c.download(ctx, job.URL, job.Dest, false)
			results[i] = JobResult{Job: job, Bytes: n, Err: err}
			if err != nil {
				slog.WarnContext(ctx, "failed to download asset", "url", job.URL, "err", err)
			}
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("failed", failed))
	return results
}

// Failures joins the errors of every failed job, nil when all succeeded.
func Failures(results []JobResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.URL, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Succeeded counts the jobs that finished without error.
func Succeeded(results []JobResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
