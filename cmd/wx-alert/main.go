// wx-alert prints the active NWS watch/warning/advisory alerts whose
// coverage polygon contains a coordinate.
//
//	$ wx-alert --lat=43.2683199 --lon=-70.8635506
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-wx-alerts/internal/config"
	"github.com/mr1hm/go-wx-alerts/internal/dataset"
	"github.com/mr1hm/go-wx-alerts/internal/fetch"
	"github.com/mr1hm/go-wx-alerts/internal/logging"
	"github.com/mr1hm/go-wx-alerts/internal/match"
	"github.com/mr1hm/go-wx-alerts/internal/models"
	"github.com/mr1hm/go-wx-alerts/internal/noaa"
)

const separator = "==============================="

func main() {
	lat := flag.Float64("lat", 43.2683199, "query latitude in decimal degrees")
	lon := flag.Float64("lon", -70.8635506, "query longitude in decimal degrees")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	ctx := context.Background()

	client := fetch.New(cfg.Dataset.URL, cfg.Dataset.FetchTimeout)
	shp, dbf, err := client.Fetch(ctx)
	if err != nil {
		logging.Fatalf("Failed to download alerts archive: %v", err)
	}

	ds, err := dataset.Parse(shp, dbf)
	if err != nil {
		logging.Fatalf("Failed to parse alerts dataset: %v", err)
	}
	slog.Debug("dataset loaded", "shapes", len(ds.Shapes))

	results, err := ds.Lookup(*lat, *lon)
	if err != nil {
		logging.Fatalf("Alert lookup failed: %v", err)
	}

	if len(results) == 0 {
		slog.Info("no active alerts for point", "lat", *lat, "lon", *lon)
		return
	}

	var enricher *noaa.Client
	if cfg.NOAA.Enabled {
		enricher = noaa.New(cfg.NOAA.BaseURL, cfg.NOAA.UserAgent, cfg.NOAA.Timeout)
	}

	for _, res := range results {
		fmt.Println(separator)
		fmt.Print(render(ctx, enricher, res))
	}
}

// render prefers the full advisory text from the NWS API and falls back to
// the locally formatted attribute block when enrichment is off or fails.
func render(ctx context.Context, enricher *noaa.Client, res models.MatchResult) string {
	capID := res.Record.Text(models.FieldCAPID)
	if enricher == nil || capID == "" {
		return match.Format(res)
	}

	alert, err := enricher.Alert(ctx, capID)
	if err != nil {
		slog.Warn("alert enrichment failed", "cap_id", capID, "error", err)
		return match.Format(res)
	}

	var b strings.Builder
	for _, part := range []string{
		alert.Properties.Headline,
		alert.Properties.Description,
		alert.Properties.Instruction,
		alert.Properties.AreaDesc,
	} {
		if part != "" {
			b.WriteString(part)
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
