package reconcile

import (
	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

// Zone attributes that may appear in a desired zone description.
const (
	AttrKind             = "kind"
	AttrMasters          = "masters"
	AttrNameservers      = "nameservers"
	AttrDNSSEC           = "dnssec"
	AttrNSEC3Param       = "nsec3param"
	AttrNSEC3Narrow      = "nsec3narrow"
	AttrPresigned        = "presigned"
	AttrSOAEdit          = "soa_edit"
	AttrSOAEditAPI       = "soa_edit_api"
	AttrAPIRectify       = "api_rectify"
	AttrCatalog          = "catalog"
	AttrAccount          = "account"
	AttrMasterTSIGKeyIDs = "master_tsig_key_ids"
	AttrSlaveTSIGKeyIDs  = "slave_tsig_key_ids"

	// AttrRRSets carries the zone's rrsets when they are compared as part of
	// a zone description.
	AttrRRSets = "rrsets"
)

// ZoneAttributes lists every attribute name accepted in a ZoneSpec.
var ZoneAttributes = []string{
	AttrKind, AttrMasters, AttrNameservers, AttrDNSSEC, AttrNSEC3Param,
	AttrNSEC3Narrow, AttrPresigned, AttrSOAEdit, AttrSOAEditAPI, AttrAPIRectify,
	AttrCatalog, AttrAccount, AttrMasterTSIGKeyIDs, AttrSlaveTSIGKeyIDs,
}

// Zone kinds understood by the API.
const (
	KindNative   = "Native"
	KindMaster   = "Master"
	KindSlave    = "Slave"
	KindProducer = "Producer"
	KindConsumer = "Consumer"
)

// ZoneSpec is a desired zone description. Only explicitly set attributes
// are present in Attributes; absent ones are never compared or sent.
type ZoneSpec struct {
	Name       string
	Attributes map[string]dns.Value
	RRSets     []RRSetSpec
}

// RRSetSpec is a desired rrset as written by the caller. Name may be short,
// qualified, or "@".
type RRSetSpec struct {
	Name    string
	Type    string
	TTL     *int
	Records []RecordSpec
}

// RecordSpec is a desired record. A nil Disabled means active.
type RecordSpec struct {
	Content  string
	Disabled *bool
}

// RRSetRef identifies an rrset for deletion.
type RRSetRef struct {
	Name string
	Type string
}
