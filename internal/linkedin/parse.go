package linkedin

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mhartig/sapjobs/internal/models"
)

// parseJobs normalizes a decoded response body. The API usually answers with
// a bare array; some error-adjacent responses wrap it in an object with a
// "jobs" key. Anything else normalizes to zero results.
//
// attempted counts every element of the raw list, including items that were
// skipped because a field had an unusable type.
func parseJobs(data any) (jobs []models.Job, attempted int, skipped int) {
	rawList := rawJobList(data)
	jobs = make([]models.Job, 0, len(rawList))
	for _, item := range rawList {
		raw, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		job, err := jobFromRaw(raw)
		if err != nil {
			skipped++
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, len(rawList), skipped
}

func rawJobList(data any) []any {
	switch value := data.(type) {
	case []any:
		return value
	case map[string]any:
		if list, ok := value["jobs"].([]any); ok {
			return list
		}
	}
	return nil
}

// jobFromRaw maps one raw item onto the normalized record. Missing or empty
// source fields leave the fallback in place; a field whose value has an
// unusable type fails the whole item.
func jobFromRaw(raw map[string]any) (models.Job, error) {
	job := models.Job{
		Title:          models.NoValue,
		Company:        models.NoValue,
		Location:       models.NoValue,
		PostedDate:     models.NoValue,
		Description:    models.NoDescription,
		ApplyURL:       models.NoURL,
		EmploymentType: models.NoValue,
		Salary:         models.NoSalary,
		Industry:       models.NoValue,
	}

	if title := stringValue(raw["title"]); title != "" {
		job.Title = title
	}
	if company := stringValue(raw["organization"]); company != "" {
		job.Company = company
	}

	location, err := locationText(raw)
	if err != nil {
		return models.Job{}, err
	}
	if location != "" {
		job.Location = location
	}

	if date := stringValue(firstPresent(raw, "date_posted", "posted_at")); date != "" {
		job.PostedDate = date
	}

	if value, ok := raw["description_text"]; ok && value != nil {
		if text := stringValue(value); text != "" {
			job.Description = text
		}
	} else if value, ok := raw["description"]; ok && value != nil {
		if text := plainText(stringValue(value)); text != "" {
			job.Description = text
		}
	}

	if link := stringValue(firstPresent(raw, "url", "apply_url")); link != "" {
		job.ApplyURL = link
	}

	employment, err := employmentText(raw)
	if err != nil {
		return models.Job{}, err
	}
	if employment != "" {
		job.EmploymentType = employment
	}

	if remote, ok := raw["remote_derived"].(bool); ok {
		job.Remote = remote
	} else if remote, ok := raw["remote"].(bool); ok {
		job.Remote = remote
	}

	if value, ok := raw["salary_raw"]; ok && value != nil {
		if salary := salaryText(value); salary != "" {
			job.Salary = salary
		}
	}

	if industry := stringValue(raw["linkedin_org_industry"]); industry != "" {
		job.Industry = industry
	}

	return job, nil
}

// locationText prefers the derived location list, joining at most its first
// two entries, and falls back to the plain location field.
func locationText(raw map[string]any) (string, error) {
	if value, ok := raw["locations_derived"]; ok && value != nil {
		entries, err := stringList(value)
		if err != nil {
			return "", fmt.Errorf("locations_derived: %w", err)
		}
		if len(entries) > 0 {
			return strings.Join(entries[:min(len(entries), 2)], ", "), nil
		}
	}
	return stringValue(raw["location"]), nil
}

func employmentText(raw map[string]any) (string, error) {
	value, ok := raw["employment_type"]
	if !ok || value == nil {
		return "", nil
	}
	entries, err := stringList(value)
	if err != nil {
		return "", fmt.Errorf("employment_type: %w", err)
	}
	return strings.Join(entries, ", "), nil
}

// salaryText flattens the salary_raw field, which arrives either as a plain
// string or as a schema.org MonetaryAmount object.
func salaryText(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64, json.Number:
		return stringValue(v)
	case map[string]any:
		currency := stringValue(v["currency"])
		if amount := mapValue(v["value"], "value"); amount != nil {
			return strings.TrimSpace(stringValue(amount) + " " + currency)
		}
		if minAmount := mapValue(v["value"], "minValue"); minAmount != nil {
			minStr := stringValue(minAmount)
			maxStr := stringValue(mapValue(v["value"], "maxValue"))
			if maxStr != "" {
				return strings.TrimSpace(minStr + " - " + maxStr + " " + currency)
			}
			return strings.TrimSpace(minStr + " " + currency)
		}
	}
	return ""
}

// firstPresent returns the value of the first key present with a non-null
// value. A key that is present but empty still wins the chain.
func firstPresent(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := raw[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

// stringList coerces a raw list field. Only genuine lists of strings pass;
// anything else reports an error so the caller can skip the item.
func stringList(value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", value)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		entry, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string entry, got %T", item)
		}
		out = append(out, entry)
	}
	return out, nil
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case int:
			return fmt.Sprintf("%d", v)
		case int64:
			return fmt.Sprintf("%d", v)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	if value == nil {
		return nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

// plainText strips markup from an HTML fragment and collapses whitespace.
// Used for the description fallback field, which the API does not pre-strip.
func plainText(value string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
	if err != nil {
		return cleanText(value)
	}
	return cleanText(doc.Text())
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}
