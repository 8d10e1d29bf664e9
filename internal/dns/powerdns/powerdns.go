package powerdns

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

const (
	defaultServerID = "localhost"

	statusCreated   = http.StatusCreated
	statusNoContent = http.StatusNoContent
)

func init() {
	dns.Register("powerdns", func(log logr.Logger, settings map[string]string) (dns.Client, error) {
		return New(log, settings)
	})
}

// Client implements dns.Client for the PowerDNS Authoritative HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     logr.Logger
}

// New creates a PowerDNS client from the given settings map.
// Required settings: url, api_key.
// Optional settings: server_id (default "localhost"), skip_tls_verify (default false).
func New(log logr.Logger, settings map[string]string) (*Client, error) {
	rawURL := settings["url"]
	if rawURL == "" {
		return nil, fmt.Errorf("powerdns: missing required setting 'url'")
	}
	apiKey := settings["api_key"]
	if apiKey == "" {
		return nil, fmt.Errorf("powerdns: missing required setting 'api_key'")
	}
	serverID := settings["server_id"]
	if serverID == "" {
		serverID = defaultServerID
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if v := settings["skip_tls_verify"]; v == "true" {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	baseURL := strings.TrimRight(rawURL, "/") + "/api/v1/servers/" + url.PathEscape(serverID)

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Transport: transport},
		log:     log,
	}, nil
}

// doRequest builds and executes an HTTP request against the PowerDNS API.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("powerdns: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("powerdns: build request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &dns.TransportError{Op: fmt.Sprintf("powerdns: %s %s", method, path), Err: err}
	}
	return resp, nil
}

func zonePath(zone string) string {
	return "zones/" + url.PathEscape(dns.Canonicalize(zone))
}

// ListZones returns the names of all zones on the server.
func (c *Client) ListZones(ctx context.Context) ([]string, error) {
	c.log.V(1).Info("listing zones")
	resp, err := c.doRequest(ctx, http.MethodGet, "zones", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("powerdns: list zones: %w", readAPIError(resp))
	}

	var zones []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&zones); err != nil {
		return nil, fmt.Errorf("powerdns: decode zone list: %w", err)
	}

	names := make([]string, 0, len(zones))
	for _, z := range zones {
		names = append(names, z.Name)
	}
	return names, nil
}

// ZoneExists reports whether the zone is present on the server.
func (c *Client) ZoneExists(ctx context.Context, zone string) (bool, error) {
	_, err := c.FetchZone(ctx, zone)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, dns.ErrZoneNotFound):
		return false, nil
	default:
		return false, err
	}
}

// FetchZone retrieves the full zone, including its rrsets.
func (c *Client) FetchZone(ctx context.Context, zone string) (*dns.Zone, error) {
	c.log.V(1).Info("fetching zone", "zone", zone)
	resp, err := c.doRequest(ctx, http.MethodGet, zonePath(zone), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("powerdns: %q: %w", zone, dns.ErrZoneNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("powerdns: fetch zone %q: %w", zone, readAPIError(resp))
	}

	var z dns.Zone
	if err := json.NewDecoder(resp.Body).Decode(&z); err != nil {
		return nil, fmt.Errorf("powerdns: decode zone %q: %w", zone, err)
	}
	return &z, nil
}

// ZoneRRSets returns the rrsets of a zone.
func (c *Client) ZoneRRSets(ctx context.Context, zone string) ([]dns.RRSet, error) {
	z, err := c.FetchZone(ctx, zone)
	if err != nil {
		return nil, err
	}
	return z.RRSets, nil
}

// GetRecords returns the rrsets of zone whose name matches name after
// qualification. An empty recordType matches every type.
func (c *Client) GetRecords(ctx context.Context, zone, name, recordType string) ([]dns.RRSet, error) {
	fqdn := dns.CanonicalizeRecord(zone, name)
	rrsets, err := c.ZoneRRSets(ctx, zone)
	if err != nil {
		return nil, err
	}

	var out []dns.RRSet
	for _, s := range rrsets {
		if s.Name == fqdn && (recordType == "" || s.Type == recordType) {
			out = append(out, s)
		}
	}
	return out, nil
}

// CreateZone posts a new zone. Success is 201 Created.
func (c *Client) CreateZone(ctx context.Context, payload *dns.ZonePayload) (dns.Response, error) {
	c.log.Info("creating zone", "zone", payload.Name)
	resp, err := c.doRequest(ctx, http.MethodPost, "zones", payload)
	if err != nil {
		return dns.Response{}, err
	}
	defer resp.Body.Close()
	return handleResult(resp, statusCreated), nil
}

// PatchZone submits a zone mutation. Success is 204 No Content.
func (c *Client) PatchZone(ctx context.Context, zone string, payload *dns.ZonePayload) (dns.Response, error) {
	c.log.Info("patching zone", "zone", zone, "attributes", payload.AttributeKeys(), "rrsets", len(payload.RRSets))
	resp, err := c.doRequest(ctx, http.MethodPatch, zonePath(zone), payload)
	if err != nil {
		return dns.Response{}, err
	}
	defer resp.Body.Close()
	return handleResult(resp, statusNoContent), nil
}

// handleResult turns a mutation response into a dns.Response. A JSON body
// carrying an "error" field is reduced to the error text and is never ok.
func handleResult(resp *http.Response, expect int) dns.Response {
	data, _ := io.ReadAll(resp.Body)

	var body any = strings.TrimSpace(string(data))
	hasError := false
	if len(bytes.TrimSpace(data)) > 0 {
		var decoded any
		if err := json.Unmarshal(data, &decoded); err == nil {
			body = decoded
			if m, ok := decoded.(map[string]any); ok {
				if e, ok := m["error"]; ok {
					body = e
					hasError = true
				}
			}
		}
	}

	return dns.Response{
		OK:         resp.StatusCode == expect && !hasError,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}

func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	var e struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		msg = e.Error
	}
	return &dns.APIError{StatusCode: resp.StatusCode, Message: msg}
}

var (
	_ dns.Client       = (*Client)(nil)
	_ dns.RecordReader = (*Client)(nil)
)
