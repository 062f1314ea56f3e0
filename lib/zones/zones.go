package zones

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"gamecatalog/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/zones")

var ErrZoneNotFound = errors.New("zone not found")

// SpecialPrefix marks registry entries that are comments or suggestions
// rather than games.
const SpecialPrefix = "[!]"

type Zone struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Cover      string   `json:"cover,omitempty"`
	URL        string   `json:"url,omitempty"`
	Author     string   `json:"author,omitempty"`
	AuthorLink string   `json:"authorLink,omitempty"`
	Featured   bool     `json:"featured,omitempty"`
	Special    []string `json:"special,omitempty"`
}

// Playable reports whether the zone is an actual game.
func (z Zone) Playable() bool {
	return z.ID >= 0 && !strings.HasPrefix(z.Name, SpecialPrefix)
}

// Decode parses zones.json. Array items that are not objects are skipped.
func Decode(contents []byte) ([]Zone, error) {
	var raw []json.RawMessage
	err := json.Unmarshal(contents, &raw)
	if err != nil {
		return nil, fmt.Errorf("decode zones: %w", err)
	}
	out := make([]Zone, 0, len(raw))
	for i, item := range raw {
		var z Zone
		err := json.Unmarshal(item, &z)
		if err != nil {
			slog.Debug("skipping malformed zone", "index", i, "err", err)
			continue
		}
		out = append(out, z)
	}
	return out, nil
}

type JSONGetter interface {
	GetJSON(ctx context.Context, url string, out any) error
}

func Fetch(ctx context.Context, client JSONGetter, url string) ([]Zone, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	var raw json.RawMessage
	err := client.GetJSON(ctx, url, &raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch zones: %w", err)
	}
	zones, err := Decode(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(zones)))
	slog.DebugContext(ctx, "fetched zones", "url", url, "count", len(zones))
	return zones, nil
}

type Registry struct {
	zones        []Zone
	byID         map[int]Zone
	byLowerName  map[string]Zone
	byCompareKey map[string]Zone
}

// NewRegistry indexes the playable zones. When two zones share a name or
// compare key the first one wins.
func NewRegistry(zones []Zone) *Registry {
	r := &Registry{
		byID:         map[int]Zone{},
		byLowerName:  map[string]Zone{},
		byCompareKey: map[string]Zone{},
	}
	for _, z := range zones {
		if !z.Playable() {
			continue
		}
		r.zones = append(r.zones, z)
		if _, ok := r.byID[z.ID]; !ok {
			r.byID[z.ID] = z
		}
		if z.Name == "" {
			continue
		}
		lower := strings.ToLower(z.Name)
		if _, ok := r.byLowerName[lower]; !ok {
			r.byLowerName[lower] = z
		}
		key := textutil.CompareKey(z.Name)
		if _, ok := r.byCompareKey[key]; key != "" && !ok {
			r.byCompareKey[key] = z
		}
	}
	return r
}

func (r *Registry) Len() int {
	return len(r.zones)
}

// Zones returns the indexed zones in registry order.
func (r *Registry) Zones() []Zone {
	return r.zones
}

func (r *Registry) ByID(id int) (Zone, bool) {
	z, ok := r.byID[id]
	return z, ok
}

func (r *Registry) ByLowerName(name string) (Zone, bool) {
	z, ok := r.byLowerName[strings.ToLower(name)]
	return z, ok
}

func (r *Registry) ByCompareKey(name string) (Zone, bool) {
	key := textutil.CompareKey(name)
	if key == "" {
		return Zone{}, false
	}
	z, ok := r.byCompareKey[key]
	return z, ok
}

var zoneIDPattern = regexp.MustCompile(`/(\d+)\.png$`)

// ExtractZoneID returns the zone id encoded in a cover URL such as
// https://cdn.jsdelivr.net/gh/gn-math/covers@main/42.png.
func ExtractZoneID(imagePath string) (int, bool) {
	m := zoneIDPattern.FindStringSubmatch(imagePath)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
