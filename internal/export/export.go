package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/mhartig/sapjobs/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func WriteJobs(w io.Writer, jobs []models.Job, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatCSV:
		return writeCSV(w, jobs, ',')
	case FormatTSV:
		return writeCSV(w, jobs, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, jobs)
	default:
		return writeTable(w, jobs, opts)
	}
}

func writeJSON(w io.Writer, jobs []models.Job) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}

func writeCSV(w io.Writer, jobs []models.Job, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := writer.Write(csvRow(job)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []models.Job, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, job := range jobs {
		fmt.Fprintln(tw, strings.Join(tableRow(job, output, opts), "\t"))
	}
	return tw.Flush()
}

// writeMarkdown renders one card per posting. Fields still carrying their
// normalization fallback are left off the card; the table and CSV formats
// keep them verbatim instead.
func writeMarkdown(w io.Writer, jobs []models.Job) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, job := range jobs {
		applyLine := "  Apply: -"
		if link := displayLink(job.ApplyURL); link != "" {
			applyLine = fmt.Sprintf("  Apply: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(job.Title), safe(job.Company)),
			fmt.Sprintf("  Location: %s", safe(job.Location)),
			fmt.Sprintf("  Posted: %s", safe(job.PostedDate)),
			applyLine,
		}
		if job.Remote {
			lines = append(lines, "  Remote: yes")
		}
		if job.EmploymentType != models.NoValue {
			lines = append(lines, fmt.Sprintf("  Type: %s", safe(job.EmploymentType)))
		}
		if job.Salary != models.NoSalary {
			lines = append(lines, fmt.Sprintf("  Salary: %s", safe(job.Salary)))
		}
		if job.Industry != models.NoValue {
			lines = append(lines, fmt.Sprintf("  Industry: %s", safe(job.Industry)))
		}
		if summary := snippet(job.Description); summary != "" {
			lines = append(lines, fmt.Sprintf("  Summary: %s", summary))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"title",
		"company",
		"location",
		"posted_date",
		"remote",
		"employment_type",
		"salary",
		"industry",
		"apply_url",
		"description",
	}
}

func csvRow(job models.Job) []string {
	return []string{
		job.Title,
		job.Company,
		job.Location,
		job.PostedDate,
		boolString(job.Remote),
		job.EmploymentType,
		job.Salary,
		job.Industry,
		job.ApplyURL,
		job.Description,
	}
}

func boolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"title",
		"company",
		"location",
		"posted",
		"remote",
		"link",
	}
}

func tableRow(job models.Job, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	displayURL := "-"
	if link := displayLink(job.ApplyURL); link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}
	return []string{
		safe(job.Title),
		safe(job.Company),
		safe(job.Location),
		safe(job.PostedDate),
		boolString(job.Remote),
		displayURL,
	}
}

// displayLink filters out the "#" placeholder the normalizer leaves when a
// posting carries no usable URL.
func displayLink(raw string) string {
	link := strings.TrimSpace(raw)
	if link == "" || link == models.NoURL {
		return ""
	}
	return link
}

// snippet folds a description onto a single line for card views.
func snippet(description string) string {
	if description == models.NoDescription {
		return ""
	}
	collapsed := strings.Join(strings.Fields(description), " ")
	return truncate(collapsed, 240)
}

func truncate(value string, max int) string {
	if max <= 0 {
		return value
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	return strings.TrimSpace(value[:max]) + "..."
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
