package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/dashboard"
)

// RendererOptions configures a Renderer.
type RendererOptions struct {
	JSON     bool
	Color    bool
	Location *time.Location
}

// Renderer prints command results as tables or JSON.
type Renderer struct {
	out  io.Writer
	opts RendererOptions
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, opts RendererOptions) *Renderer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Renderer{out: out, opts: opts}
}

var bandAttrs = map[airquality.AQIBand][]color.Attribute{
	airquality.BandGreen:   {color.FgGreen},
	airquality.BandGold:    {color.FgYellow},
	airquality.BandOrange:  {color.FgHiYellow, color.Bold},
	airquality.BandVolcano: {color.FgHiRed},
	airquality.BandRed:     {color.FgRed, color.Bold},
	airquality.BandPurple:  {color.FgMagenta, color.Bold},
}

// aqi formats an AQI value in its band colour.
func (r *Renderer) aqi(v float64) string {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	return r.paint(airquality.BandFor(v), text)
}

func (r *Renderer) paint(band airquality.AQIBand, text string) string {
	c := color.New(bandAttrs[band]...)
	if r.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	return t
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return airquality.TimestampLabel(t, r.opts.Location)
}

func activeLabel(active bool) string {
	if active {
		return "Aktif"
	}
	return "Nonaktif"
}

// Stations prints the station table.
func (r *Renderer) Stations(stations []airquality.Station) error {
	if r.opts.JSON {
		return r.json(stations)
	}
	if len(stations) == 0 {
		_, err := fmt.Fprintln(r.out, "No stations found")
		return err
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"ID", "Station", "Keyword", "UID", "Status", "Created"})
	for _, s := range stations {
		t.AppendRow(table.Row{s.ID, s.StationName, s.Keyword, s.UID, activeLabel(s.IsActive), r.timestamp(s.CreatedAt)})
	}
	t.AppendFooter(table.Row{"", "Total", len(stations)})
	t.Render()
	return nil
}

// Station prints a single station after a mutation.
func (r *Renderer) Station(verb string, s *airquality.Station) error {
	if r.opts.JSON {
		return r.json(s)
	}
	_, err := fmt.Fprintf(r.out, "%s station %d %q (%s, %s)\n", verb, s.ID, s.StationName, s.Keyword, activeLabel(s.IsActive))
	return err
}

// Deleted confirms a station removal.
func (r *Renderer) Deleted(id int) error {
	if r.opts.JSON {
		return r.json(map[string]int{"deleted": id})
	}
	_, err := fmt.Fprintf(r.out, "Deleted station %d\n", id)
	return err
}

// SearchResults prints external lookup candidates.
func (r *Renderer) SearchResults(results []airquality.SearchStation) error {
	if r.opts.JSON {
		return r.json(results)
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(r.out, "No matching stations")
		return err
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"UID", "Name", "AQI", "Keyword"})
	for _, s := range results {
		aqi := s.AQI
		if v, err := strconv.ParseFloat(s.AQI, 64); err == nil {
			aqi = r.aqi(v)
		}
		t.AppendRow(table.Row{s.UID, s.Name, aqi, s.KeywordValue})
	}
	t.Render()
	return nil
}

// Readings prints the readings table.
func (r *Renderer) Readings(readings []airquality.Reading) error {
	if r.opts.JSON {
		return r.json(readings)
	}
	return r.readingsTable(readings)
}

func (r *Renderer) readingsTable(readings []airquality.Reading) error {
	if len(readings) == 0 {
		_, err := fmt.Fprintln(r.out, "No readings found")
		return err
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"Station", "AQI", "Category", "Recorded"})
	for _, rd := range readings {
		name := rd.StationName()
		if name == "" {
			name = "#" + strconv.Itoa(rd.StationID)
		}
		t.AppendRow(table.Row{name, r.aqi(rd.AQI), rd.CategoryLabel(), r.timestamp(rd.RecordedAt)})
	}
	t.Render()
	return nil
}

// DataPage prints the readings table with the sync banner above it.
func (r *Renderer) DataPage(page *dashboard.DataPage) error {
	if r.opts.JSON {
		return r.json(page)
	}
	if page.AutoSynced {
		fmt.Fprintln(r.out, "Data was stale; a sync was triggered.")
	}
	if page.SyncError != "" {
		fmt.Fprintln(r.out, r.paint(airquality.BandGold, "Automatic sync failed: "+page.SyncError))
	}
	if err := r.LastSync(page.LastSync); err != nil {
		return err
	}
	return r.readingsTable(page.Readings)
}

// LastSync prints the last sync record.
func (r *Renderer) LastSync(last *airquality.AuditLog) error {
	if r.opts.JSON {
		return r.json(last)
	}
	if last == nil {
		_, err := fmt.Fprintln(r.out, "No sync recorded")
		return err
	}
	_, err := fmt.Fprintf(r.out, "Last sync: %s (%s) %s\n", r.timestamp(last.PerformedAt), last.Status, last.Details)
	return err
}

// SyncResult prints the outcome of a manual sync.
func (r *Renderer) SyncResult(res *airquality.SyncResult) error {
	if r.opts.JSON {
		return r.json(res)
	}
	_, err := fmt.Fprintf(r.out, "%s (%d stations synced)\n", res.Message, res.SyncedCount)
	return err
}

// Overview prints the summary, category distribution and daily trend.
func (r *Renderer) Overview(o *dashboard.Overview) error {
	if r.opts.JSON {
		return r.json(o)
	}

	s := o.Summary
	fmt.Fprintf(r.out, "Readings: %d  Stations: %d  Average AQI: %s  Verdict: %s\n\n",
		s.TotalReadings, s.Stations, r.paint(s.Band, strconv.Itoa(s.AvgAQI)), s.Verdict)

	fmt.Fprintln(r.out, "Category distribution")
	dist := r.newTable()
	dist.AppendHeader(table.Row{"Category", "Readings"})
	for _, c := range o.Distribution {
		dist.AppendRow(table.Row{c.Category, c.Count})
	}
	dist.Render()

	fmt.Fprintln(r.out, "\nDaily trend")
	trend := r.newTable()
	trend.AppendHeader(table.Row{"Day", "Avg AQI", "Readings"})
	for _, d := range o.Trend {
		trend.AppendRow(table.Row{d.Label, r.aqi(float64(d.AvgAQI)), d.Count})
	}
	trend.Render()
	return nil
}

// Token prints an issued operator token.
func (r *Renderer) Token(token string, expiresAt time.Time) error {
	if r.opts.JSON {
		return r.json(map[string]any{"token": token, "expiresAt": expiresAt})
	}
	_, err := fmt.Fprintf(r.out, "%s\n\nexpires %s\n", token, expiresAt.In(r.opts.Location).Format(time.RFC3339))
	return err
}
