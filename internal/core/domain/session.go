package domain

import (
	"strings"
	"time"
)

// Filiere identifies a commodity vertical (sector) that scopes roles,
// catalog items and workflows.
type Filiere string

const (
	FiliereOr     Filiere = "OR"     // gold
	FilierePierre Filiere = "PIERRE" // gemstones
	FiliereBois   Filiere = "BOIS"   // timber
)

// ParseFiliere normalises and validates a filière code.
func ParseFiliere(s string) (Filiere, error) {
	switch Filiere(strings.ToUpper(strings.TrimSpace(s))) {
	case FiliereOr:
		return FiliereOr, nil
	case FilierePierre:
		return FilierePierre, nil
	case FiliereBois:
		return FiliereBois, nil
	default:
		return "", ErrInvalidFiliere
	}
}

// Step is the onboarding state a session is in. The step is derived from
// the session contents, never stored, so any entry route lands on the
// correct screen.
type Step string

const (
	StepLogin         Step = "login"
	StepSelectRole    Step = "select_role"
	StepSelectFiliere Step = "select_filiere"
	StepDashboard     Step = "dashboard"
)

// stepBack maps each step to the one the back button returns to.
// Dashboard steps back to filière selection, then to role selection;
// role selection is the floor while a session exists.
var stepBack = map[Step]Step{
	StepDashboard:     StepSelectFiliere,
	StepSelectFiliere: StepSelectRole,
}

// Back returns the previous onboarding step and whether stepping back
// is possible from s.
func (s Step) Back() (Step, bool) {
	prev, ok := stepBack[s]
	return prev, ok
}

// Session holds everything the gateway keeps for one authenticated user:
// the upstream token pair plus the role and filière chosen for this
// browsing session. It is a plain value; persistence and locking are the
// store's concern.
type Session struct {
	ID              string    `json:"id"`
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	SelectedRole    string    `json:"selected_role,omitempty"`
	SelectedFiliere Filiere   `json:"selected_filiere,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Authenticated reports whether the session still holds a token pair.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Step derives the onboarding step: no token → login, no role → role
// selection, role but no filière → filière selection, both → dashboard.
func (s *Session) Step() Step {
	switch {
	case !s.Authenticated():
		return StepLogin
	case s.SelectedRole == "":
		return StepSelectRole
	case s.SelectedFiliere == "":
		return StepSelectFiliere
	default:
		return StepDashboard
	}
}

// ClearTokens wipes the token pair, ending the authenticated session.
func (s *Session) ClearTokens() {
	s.AccessToken = ""
	s.RefreshToken = ""
}

// ClearProfile forces the user back through role then filière selection.
func (s *Session) ClearProfile() {
	s.SelectedRole = ""
	s.SelectedFiliere = ""
}

// ClearFiliere keeps the role but forces filière re-selection.
func (s *Session) ClearFiliere() {
	s.SelectedFiliere = ""
}

// TokenPair is the credential pair returned by the upstream auth endpoints.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
