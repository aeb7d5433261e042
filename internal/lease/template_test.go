package lease

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildFields(t *testing.T) {
	start := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	f := BuildFields("Abel Tesfaye", "+251911000000", "Sara Bekele", "+251922000000",
		"Edna Mall, Bole Road, room G-12", start, 12, 15000)

	assert.Equal(t, start, f.LeaseStart)
	assert.Equal(t, time.Date(2027, 9, 5, 0, 0, 0, 0, time.UTC), f.LeaseEnd)
	assert.Equal(t, 5, f.DueDayOfMonth)
	assert.Equal(t, 15000.0, f.RentAmount)
	assert.Equal(t, f.RentAmount, f.SecurityDeposit)
	assert.Equal(t, 30, f.NoticeDays)
}

func TestRenderDefaultTemplate(t *testing.T) {
	f := BuildFields("Abel Tesfaye", "+251911000000", "Sara Bekele", "+251922000000",
		"Edna Mall, Bole Road, room G-12",
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), 6, 15000)

	doc := Render(DefaultTemplate, f)

	assert.NotContains(t, doc, "{")
	assert.Contains(t, doc, "Abel Tesfaye (phone: +251911000000)")
	assert.Contains(t, doc, "Sara Bekele (phone: +251922000000)")
	assert.Contains(t, doc, "from 2026-09-05 to 2027-03-05")
	assert.Contains(t, doc, "15000.00 ETB per month, due on day 5")
	assert.Contains(t, doc, "Security deposit: 15000.00 ETB")
	assert.Contains(t, doc, "30 days written notice")
}

func TestRenderIsDeterministic(t *testing.T) {
	f := BuildFields("A", "1", "B", "2", "addr",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 3, 100)
	assert.Equal(t, Render(DefaultTemplate, f), Render(DefaultTemplate, f))
}

func TestRenderLeavesUnknownTokens(t *testing.T) {
	f := Fields{TenantName: "Sara"}
	doc := Render("Dear {tenantName}, see clause {clauseNumber}.", f)
	assert.Equal(t, "Dear Sara, see clause {clauseNumber}.", doc)
}

func TestRenderRepeatedTokens(t *testing.T) {
	f := Fields{LandlordName: "Abel"}
	doc := Render("{landlordName} and again {landlordName}", f)
	assert.Equal(t, 2, strings.Count(doc, "Abel"))
}
