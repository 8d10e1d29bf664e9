package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

// Reconciler converges zones and rrsets on a DNS API to a desired state.
// Each call performs at most one read and one write, in that order.
type Reconciler struct {
	Client     dns.Client
	Log        logr.Logger
	DefaultTTL int // TTL for written rrsets with no desired or live TTL
}

func (r *Reconciler) ttl() int {
	if r.DefaultTTL > 0 {
		return r.DefaultTTL
	}
	return DefaultTTL
}

// ReconcileZone converges a zone's attributes, and its rrsets when spec
// lists any, creating the zone if it does not exist.
func (r *Reconciler) ReconcileZone(ctx context.Context, spec ZoneSpec, dryRun bool) Outcome {
	name, err := dns.NormalizeZoneName(spec.Name)
	if err != nil {
		return failed(spec.Name, fmt.Sprintf("Failed to query zone: %v", err))
	}
	log := r.Log.WithValues("zone", name)
	want := normalizeAttributes(name, spec)
	if rrsets, ok := want[AttrRRSets]; ok {
		if err := uniqueRRSets(rrsets.RRSets()); err != nil {
			log.Error(err, "invalid zone description")
			return failed(name, err.Error())
		}
	}

	snapshot, err := r.Client.FetchZone(ctx, name)
	if errors.Is(err, dns.ErrZoneNotFound) {
		log.Info("zone not found")
		return r.createZone(ctx, log, name, want, dryRun)
	}
	if err != nil {
		log.Error(err, "failed to query zone")
		return failed(name, fmt.Sprintf("Failed to query zone: %v", err))
	}
	log.V(1).Info("fetched zone", "rrsets", len(snapshot.RRSets))

	// nameservers only apply at creation time
	delete(want, AttrNameservers)

	have := maps.Clone(snapshot.Attributes)
	if have == nil {
		have = make(map[string]dns.Value)
	}
	have[AttrRRSets] = dns.RecordListValue(snapshot.RRSets)

	diff, err := DiffAttributes(log, want, have)
	if err != nil {
		log.Error(err, "cannot compare zone")
		return failed(name, err.Error())
	}

	if diff.Empty() {
		log.Info("zone is up to date")
		return Outcome{Name: name, Result: ResultSucceeded, Comment: "Zone is already in the correct state."}
	}

	if dryRun {
		log.Info("zone would be modified", "changes", len(diff.Changes))
		return Outcome{Name: name, Result: ResultPending, Comment: "Zone would be modified.", Changes: diff.Changes}
	}

	resp, err := r.Client.PatchZone(ctx, name, BuildPatch(diff, r.ttl()))
	if err != nil {
		log.Error(err, "zone modification failed")
		return failed(name, fmt.Sprintf("Zone modification failed: %v", err))
	}
	if !resp.OK {
		log.Error(nil, "zone modification failed", "status", resp.StatusCode)
		return failed(name, "Zone modification failed: "+responseDetail(resp))
	}
	log.Info("zone modified", "changes", len(diff.Changes))
	return Outcome{Name: name, Result: ResultSucceeded, Comment: "Zone modified: " + responseDetail(resp), Changes: diff.Changes}
}

func (r *Reconciler) createZone(ctx context.Context, log logr.Logger, name string, want map[string]dns.Value, dryRun bool) Outcome {
	changes := createChanges(want)

	if dryRun {
		log.Info("zone would be created")
		return Outcome{Name: name, Result: ResultPending, Comment: "Zone would be created.", Changes: changes}
	}

	resp, err := r.Client.CreateZone(ctx, BuildCreatePayload(name, want, r.ttl()))
	if err != nil {
		log.Error(err, "zone creation failed")
		return failed(name, fmt.Sprintf("Zone creation failed: %v", err))
	}
	if !resp.OK {
		log.Error(nil, "zone creation failed", "status", resp.StatusCode)
		return failed(name, "Zone creation failed: "+responseDetail(resp))
	}
	log.Info("zone created")
	return Outcome{Name: name, Result: ResultSucceeded, Comment: "Zone created: " + responseDetail(resp), Changes: changes}
}

// ReconcileRRSets replaces every drifting rrset of an existing zone with
// its desired form. Changes are keyed by rrset name.
func (r *Reconciler) ReconcileRRSets(ctx context.Context, zone string, specs []RRSetSpec, dryRun bool) Outcome {
	name, snapshot, out, ok := r.fetchExisting(ctx, zone)
	if !ok {
		return out
	}
	log := r.Log.WithValues("zone", name)
	if snapshot == nil {
		err := &PreconditionError{Zone: name}
		log.Error(err, "cannot update rrsets")
		return failed(name, err.Error())
	}

	diffs, err := DiffRRSets(log, NormalizeRRSets(name, specs), snapshot.RRSets)
	if err != nil {
		log.Error(err, "cannot compare rrsets")
		return failed(name, err.Error())
	}
	changes := map[string][]Change{}
	for _, d := range diffs {
		if d.Drift == DriftNone {
			continue
		}
		changes[d.Want.Name] = append(changes[d.Want.Name], d.Change())
	}

	if len(changes) == 0 {
		log.Info("rrsets are up to date")
		return Outcome{Name: name, Result: ResultSucceeded, Comment: "Resource sets are already up to date."}
	}

	if dryRun {
		log.Info("rrsets would be updated", "rrsets", len(changes))
		return Outcome{Name: name, Result: ResultPending, Comment: "Resource sets would be updated.", RRSetChanges: changes}
	}

	payload := &dns.ZonePayload{RRSets: replaceEntries(diffs, r.ttl())}
	resp, err := r.Client.PatchZone(ctx, name, payload)
	if err != nil {
		log.Error(err, "rrset update failed")
		return failed(name, fmt.Sprintf("Resource set update failed: %v", err))
	}
	if !resp.OK {
		log.Error(nil, "rrset update failed", "status", resp.StatusCode)
		return failed(name, "Resource set update failed: "+responseDetail(resp))
	}
	log.Info("rrsets updated", "rrsets", len(payload.RRSets))
	return Outcome{Name: name, Result: ResultSucceeded, Comment: "Resource sets updated: " + responseDetail(resp), RRSetChanges: changes}
}

// ReconcileRRSetsAbsent deletes the referenced rrsets that exist. A zone
// that does not exist holds no rrsets, so it is already converged.
func (r *Reconciler) ReconcileRRSetsAbsent(ctx context.Context, zone string, refs []RRSetRef, dryRun bool) Outcome {
	name, snapshot, out, ok := r.fetchExisting(ctx, zone)
	if !ok {
		return out
	}
	log := r.Log.WithValues("zone", name)
	absent := Outcome{Name: name, Result: ResultSucceeded, Comment: "Resource sets are already absent."}
	if snapshot == nil {
		log.Info("zone not found, nothing to delete")
		return absent
	}

	var doomed []dns.RRSet
	seen := map[string]bool{}
	changes := map[string][]Change{}
	for _, ref := range refs {
		rrName := dns.CanonicalizeRecord(name, ref.Name)
		rrType := strings.ToUpper(ref.Type)
		key := dns.RRSetKey(rrName, rrType)
		if seen[key] {
			continue
		}
		seen[key] = true

		set, found := snapshot.FindRRSet(rrName, rrType)
		if !found {
			log.V(1).Info("rrset already absent", "rrset", key)
			continue
		}
		doomed = append(doomed, set)
		changes[rrName] = append(changes[rrName], Change{Old: stateOf(set)})
	}

	if len(doomed) == 0 {
		log.Info("rrsets are already absent")
		return absent
	}

	if dryRun {
		log.Info("rrsets would be deleted", "rrsets", len(doomed))
		return Outcome{Name: name, Result: ResultPending, Comment: "Resource sets would be deleted.", RRSetChanges: changes}
	}

	resp, err := r.Client.PatchZone(ctx, name, BuildDeletePayload(doomed))
	if err != nil {
		log.Error(err, "rrset deletion failed")
		return failed(name, fmt.Sprintf("Resource set deletion failed: %v", err))
	}
	if !resp.OK {
		log.Error(nil, "rrset deletion failed", "status", resp.StatusCode)
		return failed(name, "Resource set deletion failed: "+responseDetail(resp))
	}
	log.Info("rrsets deleted", "rrsets", len(doomed))
	return Outcome{Name: name, Result: ResultSucceeded, Comment: "Resource sets deleted: " + responseDetail(resp), RRSetChanges: changes}
}

// fetchExisting normalizes zone and reads its snapshot. A nil snapshot with
// ok set means the zone does not exist; ok unset means out is terminal.
func (r *Reconciler) fetchExisting(ctx context.Context, zone string) (string, *dns.Zone, Outcome, bool) {
	name, err := dns.NormalizeZoneName(zone)
	if err != nil {
		return zone, nil, failed(zone, fmt.Sprintf("Failed to query zone: %v", err)), false
	}
	snapshot, err := r.Client.FetchZone(ctx, name)
	if errors.Is(err, dns.ErrZoneNotFound) {
		return name, nil, Outcome{}, true
	}
	if err != nil {
		r.Log.Error(err, "failed to query zone", "zone", name)
		return name, nil, failed(name, fmt.Sprintf("Failed to query zone: %v", err)), false
	}
	return name, snapshot, Outcome{}, true
}

func failed(name, comment string) Outcome {
	return Outcome{Name: name, Result: ResultFailed, Comment: comment}
}

// responseDetail renders "{status} - {body}" for outcome comments.
func responseDetail(resp dns.Response) string {
	var body string
	switch b := resp.Body.(type) {
	case nil:
	case string:
		body = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			body = fmt.Sprint(b)
		} else {
			body = string(data)
		}
	}
	return fmt.Sprintf("%d - %s", resp.StatusCode, body)
}
