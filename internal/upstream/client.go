// Package upstream talks to the canteen's menu, customer-group and
// appointment endpoints and normalizes their JSON payloads.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/javiermolinar/madvognen/internal/dateutil"
)

// DefaultTimeout bounds every single upstream request.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Query parameter names expected by the menu endpoint.
const (
	paramGroupID = "KundegruppeID"
	paramMillis  = "millis"
)

// Options configures a Client.
type Options struct {
	MenuURL         string
	GroupsURL       string
	AppointmentsURL string
	Location        *time.Location // timezone used to anchor request timestamps
	Timeout         time.Duration  // per-request timeout
	Logger          *zap.Logger

	// HTTPClient replaces the per-session client. Used by tests.
	HTTPClient *http.Client
}

// Client creates sessions against the upstream service.
type Client struct {
	menuURL         string
	groupsURL       string
	appointmentsURL string
	loc             *time.Location
	timeout         time.Duration
	log             *zap.Logger
	httpClient      *http.Client
}

// New creates a Client. MenuURL is required.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.MenuURL) == "" {
		return nil, fmt.Errorf("menu url: %w", ErrNotConfigured)
	}
	if _, err := url.Parse(opts.MenuURL); err != nil {
		return nil, fmt.Errorf("parsing menu url: %w", err)
	}
	c := &Client{
		menuURL:         opts.MenuURL,
		groupsURL:       opts.GroupsURL,
		appointmentsURL: opts.AppointmentsURL,
		loc:             opts.Location,
		timeout:         opts.Timeout,
		log:             opts.Logger,
		httpClient:      opts.HTTPClient,
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c, nil
}

// Location returns the timezone request timestamps are anchored in.
func (c *Client) Location() *time.Location {
	return c.loc
}

// Session owns the HTTP connections of one update pass.
type Session struct {
	client *Client
	http   *http.Client
}

// OpenSession starts a session. Callers must Close it when the pass ends.
func (c *Client) OpenSession() *Session {
	hc := c.httpClient
	if hc == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		hc = &http.Client{Timeout: c.timeout, Transport: transport}
	}
	return &Session{client: c, http: hc}
}

// Close releases the session's idle connections.
func (s *Session) Close() error {
	s.http.CloseIdleConnections()
	return nil
}

// MenuRequestURL builds the menu URL for a customer group and calendar day.
func (c *Client) MenuRequestURL(groupID int, date time.Time) (string, error) {
	u, err := url.Parse(c.menuURL)
	if err != nil {
		return "", fmt.Errorf("parsing menu url: %w", err)
	}
	q := u.Query()
	q.Set(paramGroupID, strconv.Itoa(groupID))
	q.Set(paramMillis, strconv.FormatInt(dateutil.NoonMillis(date, c.loc), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchDay returns the dish names served to groupID on date.
//
// An empty, non-nil slice means no menu is available for that day: either the
// payload echoed a different date than requested or it held no dishes.
// Transport failures, non-200 responses and malformed payloads are errors.
func (s *Session) FetchDay(ctx context.Context, groupID int, date time.Time) ([]string, error) {
	reqURL, err := s.client.MenuRequestURL(groupID, date)
	if err != nil {
		return nil, err
	}

	body, err := s.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	// The calendar fields of date are authoritative, matching NoonMillis.
	want := date.Format(dateutil.DateLayout)
	items, echoed, err := parseMenu(body, want)
	if err != nil {
		return nil, err
	}
	if echoed != want {
		s.client.log.Warn("menu date mismatch",
			zap.Int("group_id", groupID),
			zap.String("requested", want),
			zap.String("echoed", echoed))
	}
	s.client.log.Debug("fetched day",
		zap.Int("group_id", groupID),
		zap.String("date", want),
		zap.Int("items", len(items)))
	return items, nil
}

// get performs a GET and returns the body of a 200 response.
func (s *Session) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	return body, nil
}

// parseMenu validates a menu payload against the requested date and extracts
// its dish names in document order. It returns the echoed date as found.
func parseMenu(body []byte, want string) (items []string, echoed string, err error) {
	if !gjson.ValidBytes(body) {
		return nil, "", invalidData("malformed JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, "", invalidData("menu payload is not an object")
	}

	echoed = lookupString(doc, menuDateAliases)
	if echoed != want {
		return []string{}, echoed, nil
	}

	sections := lookup(doc, menuSectionAliases)
	if !sections.Exists() || sections.Type == gjson.Null {
		return []string{}, echoed, nil
	}
	if !sections.IsObject() {
		return nil, echoed, invalidData("menu sections are not an object")
	}

	items = []string{}
	sections.ForEach(func(name, section gjson.Result) bool {
		if !section.IsObject() {
			err = invalidData("menu section %q is not an object", name.String())
			return false
		}
		entries := lookup(section, menuEntryAliases)
		if !entries.IsArray() {
			return true
		}
		for _, entry := range entries.Array() {
			if dish := lookupString(entry, menuNameAliases); dish != "" {
				items = append(items, dish)
			}
		}
		return true
	})
	if err != nil {
		return nil, echoed, err
	}
	return items, echoed, nil
}
