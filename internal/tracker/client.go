package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
)

// searchPageSize is the number of issues fetched per search request.
const searchPageSize = 50

// trackerTimeLayout is the timestamp format of the tracker API.
const trackerTimeLayout = "2006-01-02T15:04:05.000-0700"

// HTTPClient talks to a Yandex-Tracker-style REST API v2.
type HTTPClient struct {
	baseURL string
	token   string
	orgID   string
	hc      *http.Client
}

var _ contract.TrackerClient = &HTTPClient{} // Compile-time check

// NewHTTPClient creates a tracker client with OAuth token and organization
// id authentication.
func NewHTTPClient(baseURL, token, orgID string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		orgID:   orgID,
		hc:      &http.Client{Timeout: 60 * time.Second},
	}
}

// Wire formats of the tracker API, reduced to the fields the engine needs.
type (
	wireRef struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}

	wireIssue struct {
		Key        string   `json:"key"`
		Summary    string   `json:"summary"`
		Type       wireRef  `json:"type"`
		Queue      wireRef  `json:"queue"`
		Components []wireRef `json:"components"`
		Tags       []string `json:"tags"`
		Status     wireRef  `json:"status"`
		Resolution *wireRef `json:"resolution"`
		CreatedAt  string   `json:"createdAt"`
		UpdatedAt  string   `json:"updatedAt"`
	}

	wireFieldChange struct {
		Field wireRef         `json:"field"`
		To    json.RawMessage `json:"to"`
	}

	wireChangelogEntry struct {
		UpdatedAt string            `json:"updatedAt"`
		Fields    []wireFieldChange `json:"fields"`
	}
)

// SearchIssues fetches all issues of a queue together with their changelog
// events, reverse-sorted by event date.
func (c *HTTPClient) SearchIssues(ctx context.Context, queue string) ([]schema.Issue, error) {
	var issues []schema.Issue
	for page := 1; ; page++ {
		batch, err := c.searchPage(ctx, queue, page)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for _, wi := range batch {
			issue, err := c.buildIssue(ctx, wi)
			if err != nil {
				return nil, err
			}
			issues = append(issues, issue)
		}
		if len(batch) < searchPageSize {
			break
		}
	}
	return issues, nil
}

// searchPage runs one page of the issue search endpoint.
func (c *HTTPClient) searchPage(ctx context.Context, queue string, page int) ([]wireIssue, error) {
	body, err := json.Marshal(map[string]any{
		"filter": map[string]any{"queue": queue},
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v2/issues/_search?perPage=%d&page=%d", c.baseURL, searchPageSize, page)
	data, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("issue search for queue %q failed: %w", queue, err)
	}
	var batch []wireIssue
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("cannot decode issue search response: %w", err)
	}
	return batch, nil
}

// buildIssue fetches the changelog of one issue and assembles the model.
func (c *HTTPClient) buildIssue(ctx context.Context, wi wireIssue) (schema.Issue, error) {
	url := fmt.Sprintf("%s/v2/issues/%s/changelog?perPage=100", c.baseURL, wi.Key)
	data, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return schema.Issue{}, fmt.Errorf("changelog fetch for %s failed: %w", wi.Key, err)
	}
	var entries []wireChangelogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return schema.Issue{}, fmt.Errorf("cannot decode changelog for %s: %w", wi.Key, err)
	}

	issue := schema.Issue{
		Key:       wi.Key,
		Summary:   wi.Summary,
		Type:      wi.Type.Key,
		Queue:     wi.Queue.Key,
		Tags:      wi.Tags,
		Status:    wi.Status.Key,
		CreatedAt: parseTrackerTime(wi.CreatedAt),
		UpdatedAt: parseTrackerTime(wi.UpdatedAt),
	}
	if wi.Resolution != nil {
		issue.Resolution = wi.Resolution.Key
	}
	for _, comp := range wi.Components {
		issue.Components = append(issue.Components, comp.Name)
	}

	for _, entry := range entries {
		when := parseTrackerTime(entry.UpdatedAt)
		for _, fc := range entry.Fields {
			ev, ok := decodeEvent(fc, when)
			if ok {
				issue.Events = append(issue.Events, ev)
			}
		}
	}
	sort.Slice(issue.Events, func(i, j int) bool {
		return issue.Events[i].Date.After(issue.Events[j].Date)
	})
	return issue, nil
}

// decodeEvent maps one changelog field change to an issue event. Only spent,
// estimation, status and resolution changes are kept.
func decodeEvent(fc wireFieldChange, when time.Time) (schema.IssueEvent, bool) {
	ev := schema.IssueEvent{Date: when}
	switch fc.Field.Key {
	case "spent":
		ev.Kind = schema.EventSpent
	case "estimation":
		ev.Kind = schema.EventEstimation
	case "status":
		ev.Kind = schema.EventStatus
	case "resolution":
		ev.Kind = schema.EventResolution
	default:
		return ev, false
	}

	switch ev.Kind {
	case schema.EventSpent, schema.EventEstimation:
		var duration *string
		if err := json.Unmarshal(fc.To, &duration); err == nil && duration != nil {
			ev.Hours = IsoHours(*duration)
		}
	default:
		var ref *wireRef
		if err := json.Unmarshal(fc.To, &ref); err == nil && ref != nil {
			ev.Value = ref.Key
		}
	}
	return ev, true
}

// do executes one authenticated API request and returns the response body.
func (c *HTTPClient) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("X-Org-ID", c.orgID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracker returned %s: %s", resp.Status, truncateBody(data))
	}
	return data, nil
}

// truncateBody keeps error payloads readable in logs.
func truncateBody(data []byte) string {
	const limit = 200
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}

// parseTrackerTime parses a tracker timestamp, falling back to RFC3339.
func parseTrackerTime(s string) time.Time {
	if t, err := time.Parse(trackerTimeLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
