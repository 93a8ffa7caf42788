package domain

import "time"

// ActorRole is one role assignment on an actor, with its validity window.
type ActorRole struct {
	ID        int        `json:"id,omitempty"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
}

// Territory is a referential entry at any level (region, district,
// commune, fokontany).
type Territory struct {
	ID   int    `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ActorProfile is the authenticated user as returned by /auth/me.
// Read-only from the gateway's perspective.
type ActorProfile struct {
	ID           int        `json:"id"`
	TypePersonne string     `json:"type_personne,omitempty"`
	Nom          string     `json:"nom"`
	Prenoms      string     `json:"prenoms,omitempty"`
	Telephone    string     `json:"telephone,omitempty"`
	Email        string     `json:"email,omitempty"`
	Status       string     `json:"status"`
	CIN          string     `json:"cin,omitempty"`
	NIF          string     `json:"nif,omitempty"`
	Stat         string     `json:"stat,omitempty"`
	RCCM         string     `json:"rccm,omitempty"`
	Region       *Territory `json:"region,omitempty"`
	District     *Territory `json:"district,omitempty"`
	Commune      *Territory `json:"commune,omitempty"`
	Fokontany    *Territory `json:"fokontany,omitempty"`
	Roles        []ActorRole `json:"roles"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// RoleCodes flattens the role assignments into plain codes for the menu
// computation.
func (p *ActorProfile) RoleCodes() []string {
	if p == nil {
		return nil
	}
	codes := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		codes = append(codes, r.Role)
	}
	return codes
}

// RBACRole is one entry of the role catalog offered on the selection step.
type RBACRole struct {
	Code        string `json:"code"`
	Label       string `json:"label,omitempty"`
	Level       string `json:"level,omitempty"`
	Institution string `json:"institution,omitempty"`
	Acronym     string `json:"acronym,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	ActorType   string `json:"actor_type,omitempty"`
	Active      bool   `json:"active,omitempty"`
}
