package handler

import (
	"github.com/mzurek/drumtrack/internal/repository"
)

// AdminHandler bundles the repositories backing the administrative
// surface: client provisioning, inventory oversight, return-period
// overrides, request scheduling and the dashboard report.
type AdminHandler struct {
	Companies *repository.CompanyRepo
	Drums     *repository.DrumRepo
	Periods   *repository.ReturnPeriodRepo
	Requests  *repository.ReturnRequestRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(companies *repository.CompanyRepo, drums *repository.DrumRepo,
	periods *repository.ReturnPeriodRepo, requests *repository.ReturnRequestRepo) *AdminHandler {
	if companies == nil || drums == nil || periods == nil || requests == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Companies: companies, Drums: drums, Periods: periods, Requests: requests}
}

// validNIP reports whether a string looks like a 10-digit NIP.
func validNIP(nip string) bool {
	if len(nip) != 10 {
		return false
	}
	for _, r := range nip {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
