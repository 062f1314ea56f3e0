package restyutil

import (
	"fmt"
	"mime"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

// bodies past this are cut, game pages inline whole bundles
const maxDumpedBody = 64 * 1024

func writeHeaders(out *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(out, "%s: %s\n", k, v)
		}
	}
}

func isTextual(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") ||
		strings.HasSuffix(mediaType, "json") ||
		strings.HasSuffix(mediaType, "javascript") ||
		strings.HasSuffix(mediaType, "xml")
}

// dumpBody renders a response body, binary assets (wasm, unity data,
// images) are summarized by size.
func dumpBody(contentType string, body []byte) string {
	if len(body) == 0 {
		return "(empty or streamed)"
	}
	if !isTextual(contentType) && !utf8.Valid(body) {
		return fmt.Sprintf("(%d bytes of %s)", len(body), contentType)
	}
	if len(body) > maxDumpedBody {
		return fmt.Sprintf("%s\n... (%d more bytes)", body[:maxDumpedBody], len(body)-maxDumpedBody)
	}
	return string(body)
}

// formatHttpMessage renders a finished exchange as plain text: the request
// line and headers, then the status, final URL, headers and body of the
// response.
func formatHttpMessage(res *resty.Response) string {
	var out strings.Builder

	out.WriteString("---- REQUEST ----\n\n")
	fmt.Fprintf(&out, "%s %s\n\n", res.Request.Method, res.Request.URL)
	if res.Request.RawRequest != nil {
		writeHeaders(&out, res.Request.RawRequest.Header)
	}

	finalURL := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalURL = res.RawResponse.Request.URL.String()
	}

	out.WriteString("\n---- RESPONSE ----\n\n")
	fmt.Fprintf(&out, "%d %s\n\n", res.StatusCode(), finalURL)
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(dumpBody(res.Header().Get("content-type"), res.Body()))
	return out.String()
}
