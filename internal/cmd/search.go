package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/mhartig/sapjobs/internal/config"
	"github.com/mhartig/sapjobs/internal/export"
	"github.com/mhartig/sapjobs/internal/linkedin"
	"github.com/mhartig/sapjobs/internal/models"
	"github.com/mhartig/sapjobs/internal/network"
)

type SearchCmd struct {
	Location string `help:"Location filter. Empty or \"All Locations\" searches everywhere."`
	Remote   bool   `help:"Remote postings only."`
	Days     int    `help:"Posted within the last N days (1-30)."`
	Limit    int    `help:"Results per page: 10, 25, 50 or 100."`
	Page     int    `help:"Page number (1-based)." xor:"paging"`
	Offset   int    `help:"Result offset (0-based). Alternative to --page." xor:"paging"`
	Format   string `help:"Output format: table, csv, json, md, tsv." enum:",table,csv,json,md,tsv" default:""`
	Links    string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output   string `name:"output" short:"o" help:"Write output to a file."`
	APIKey   string `name:"api-key" env:"SAPJOBS_API_KEY" help:"RapidAPI key. Overrides secrets.toml."`
	APIHost  string `name:"api-host" env:"SAPJOBS_API_HOST" help:"RapidAPI host. Overrides secrets.toml."`
	Proxies  string `help:"Comma-separated proxy URLs." env:"SAPJOBS_PROXIES"`
}

const (
	minDaysBack = 1
	maxDaysBack = 30
)

func (s *SearchCmd) Run(ctx *Context) error {
	criteria, err := buildCriteria(ctx.Config, s)
	if err != nil {
		return err
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return fmt.Errorf("load secrets: %w", err)
	}
	resolved := config.ResolveCredentials(s.APIKey, s.APIHost, secrets)

	proxies, err := config.LoadProxies(s.Proxies)
	if err != nil {
		return err
	}
	transport, err := network.NewClient(network.Options{Proxies: proxies})
	if err != nil {
		return fmt.Errorf("build transport: %w", err)
	}

	client, err := linkedin.NewClient(linkedin.Config{
		Credentials: resolved.Credentials,
		HTTPClient:  transport,
		Logger:      ctx.Logger,
	})
	if err != nil {
		return err
	}

	stopSpinner := ctx.UI.StartSpinner("Searching...")
	result, err := client.Search(context.Background(), criteria)
	stopSpinner()
	if err != nil {
		return err
	}

	format, err := resolveFormat(ctx, s.Format, s.Output)
	if err != nil {
		return err
	}

	writer := ctx.Out
	var file *os.File
	if s.Output != "" {
		file, err = os.Create(s.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && file == nil
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleFull
	if strings.EqualFold(s.Links, string(export.LinkStyleShort)) {
		linkStyle = export.LinkStyleShort
	}
	if err := export.WriteJobs(writer, result.Jobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	}); err != nil {
		return err
	}

	printSearchSummary(ctx, criteria, result, time.Now())
	return nil
}

// buildCriteria folds flags over the config defaults and validates the
// ranges the upstream API does not check for us.
func buildCriteria(cfg config.Config, s *SearchCmd) (models.SearchCriteria, error) {
	days := defaultInt(s.Days, cfg.DefaultDays)
	if days < minDaysBack || days > maxDaysBack {
		return models.SearchCriteria{}, fmt.Errorf("--days must be between %d and %d, got %d", minDaysBack, maxDaysBack, days)
	}

	limit := defaultInt(s.Limit, cfg.DefaultLimit)
	if !models.ValidPageSize(limit) {
		return models.SearchCriteria{}, fmt.Errorf("--limit must be one of %v, got %d", models.PageSizes, limit)
	}

	offset, err := resolveOffset(s.Page, s.Offset, limit)
	if err != nil {
		return models.SearchCriteria{}, err
	}

	return models.SearchCriteria{
		DaysBack:   days,
		Location:   firstNonEmpty(s.Location, cfg.DefaultLocation),
		RemoteOnly: s.Remote,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// resolveOffset maps --page onto an offset. Kong's xor group rejects the
// flag combination; this only handles the values.
func resolveOffset(page, offset, limit int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("--offset must not be negative, got %d", offset)
	}
	if offset > 0 {
		return offset, nil
	}
	if page == 0 {
		return 0, nil
	}
	if page < 1 {
		return 0, fmt.Errorf("--page must be at least 1, got %d", page)
	}
	return (page - 1) * limit, nil
}

func printSearchSummary(ctx *Context, criteria models.SearchCriteria, result models.SearchResult, now time.Time) {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return
	}

	if len(result.Jobs) == 0 {
		ctx.UI.Warnf("No SAP jobs found matching your criteria. Try adjusting your filters.")
		return
	}

	page := criteria.Offset/criteria.Limit + 1
	fmt.Fprintln(ctx.Err, searchSummary(result, page, linkedin.PostedSince(now, criteria.DaysBack)))

	if len(result.Jobs) == criteria.Limit {
		fmt.Fprintf(ctx.Err, "More results may be available: rerun with --page %d\n", page+1)
	}
	if criteria.Offset > 0 {
		fmt.Fprintf(ctx.Err, "Previous page: rerun with --page %d\n", page-1)
	}
}

func searchSummary(result models.SearchResult, page int, since string) string {
	return fmt.Sprintf("Found %d SAP jobs (page %d, posted since %s)", result.Total, page, since)
}

func resolveFormat(ctx *Context, requested string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if requested != "" {
		return parseFormat(requested)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
