package dns

import "context"

// Response is the raw outcome of a mutating API call.
// Body holds the decoded JSON response, the server-reported error text when
// the response carried an "error" field, or the raw text otherwise.
type Response struct {
	OK         bool
	StatusCode int
	Body       any
}

// Client is the interface that authoritative DNS API clients must implement.
// Implementations own their transport session; callers treat them as opaque.
type Client interface {
	ListZones(ctx context.Context) ([]string, error)
	// ZoneExists reports whether zone is served. The reconciler reads zones
	// through FetchZone; this is for callers that only need the check, such
	// as the records command.
	ZoneExists(ctx context.Context, zone string) (bool, error)
	// FetchZone returns ErrZoneNotFound when the zone does not exist.
	FetchZone(ctx context.Context, zone string) (*Zone, error)
	CreateZone(ctx context.Context, payload *ZonePayload) (Response, error)
	PatchZone(ctx context.Context, zone string, payload *ZonePayload) (Response, error)
}

// RecordReader is implemented by clients that can look up rrsets by owner
// name without the caller fetching the whole zone.
type RecordReader interface {
	GetRecords(ctx context.Context, zone, name, recordType string) ([]RRSet, error)
}
