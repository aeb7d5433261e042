// Package lease renders plain-text lease agreements from a mall's
// template by substituting {token} placeholders.
package lease

import (
	"fmt"
	"strings"
	"time"
)

// Fields holds every substitutable value of a lease document.
type Fields struct {
	LandlordName    string
	LandlordPhone   string
	TenantName      string
	TenantPhone     string
	PropertyAddress string
	LeaseStart      time.Time
	LeaseEnd        time.Time
	DueDayOfMonth   int
	RentAmount      float64
	SecurityDeposit float64
	NoticeDays      int
}

const dateLayout = "2006-01-02"

// noticeDays is fixed at 30 across all generated leases.
const noticeDays = 30

// BuildFields computes the derived lease values: the term runs
// durationMonths from the payment date, the due day of month comes from
// the payment date, and the rent amount doubles as the security deposit.
func BuildFields(landlordName, landlordPhone, tenantName, tenantPhone, propertyAddress string,
	paymentDate time.Time, durationMonths int, rentAmount float64) Fields {
	return Fields{
		LandlordName:    landlordName,
		LandlordPhone:   landlordPhone,
		TenantName:      tenantName,
		TenantPhone:     tenantPhone,
		PropertyAddress: propertyAddress,
		LeaseStart:      paymentDate,
		LeaseEnd:        paymentDate.AddDate(0, durationMonths, 0),
		DueDayOfMonth:   paymentDate.Day(),
		RentAmount:      rentAmount,
		SecurityDeposit: rentAmount,
		NoticeDays:      noticeDays,
	}
}

func (f Fields) tokens() map[string]string {
	return map[string]string{
		"landlordName":    f.LandlordName,
		"landlordPhone":   f.LandlordPhone,
		"tenantName":      f.TenantName,
		"tenantPhone":     f.TenantPhone,
		"propertyAddress": f.PropertyAddress,
		"leaseStart":      f.LeaseStart.Format(dateLayout),
		"leaseEnd":        f.LeaseEnd.Format(dateLayout),
		"dueDayOfMonth":   fmt.Sprintf("%d", f.DueDayOfMonth),
		"rentAmount":      fmt.Sprintf("%.2f", f.RentAmount),
		"securityDeposit": fmt.Sprintf("%.2f", f.SecurityDeposit),
		"noticeDays":      fmt.Sprintf("%d", f.NoticeDays),
	}
}

// Render substitutes every known {token} in the template. Unknown tokens
// are left verbatim; rendering never fails.
func Render(template string, f Fields) string {
	out := template
	for token, value := range f.tokens() {
		out = strings.ReplaceAll(out, "{"+token+"}", value)
	}
	return out
}

// DefaultTemplate is used when a mall has not uploaded its own.
const DefaultTemplate = `RESIDENTIAL/COMMERCIAL LEASE AGREEMENT

This lease is made between {landlordName} (phone: {landlordPhone}), the
Landlord, and {tenantName} (phone: {tenantPhone}), the Tenant, for the
property at {propertyAddress}.

Term: from {leaseStart} to {leaseEnd}.
Rent: {rentAmount} ETB per month, due on day {dueDayOfMonth} of each month.
Security deposit: {securityDeposit} ETB.
Either party may terminate with {noticeDays} days written notice.

Signed,
{landlordName}          {tenantName}
`
