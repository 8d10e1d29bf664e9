// Package providers imports all DNS client packages to trigger their init() registration.
package providers

import (
	_ "github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns/powerdns"
)
