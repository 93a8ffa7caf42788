package domain

import "strings"

// MenuItem is one navigation destination. Roles is the static allow-list
// (at least one must match); Permissions is the list of permission
// prefixes that also grant the item when the selected role carries a
// registered permission set.
type MenuItem struct {
	Path        string   `json:"path"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"-"`
}

// DefaultLandingPath is where the guard sends users whose current path is
// outside their visible set.
const DefaultLandingPath = "/dashboard"

// Roles that see every destination regardless of registered permissions.
var supervisorRoles = map[string]struct{}{
	"admin":     {},
	"dirigeant": {},
}

// MenuItems is the static navigation table, aligned on the authority
// referential (strategic, central, control, territorial, community,
// judicial levels). Not mutated at runtime.
var MenuItems = []MenuItem{
	{
		Path: "/dashboard", Label: "Tableau de bord", Icon: "📊",
		Roles:       []string{"admin", "dirigeant", "pr", "pm", "mmrs", "mef", "bfm", "decentralisation", "region", "commune_agent", "acteur", "orpailleur", "com", "bcmm", "forets", "tresor", "dgd"},
		Permissions: []string{"lecture_seule", "dashboard_", "admin_commune", "pilotage_kpi"},
	},
	{
		Path: "/dashboard/national", Label: "Vue nationale", Icon: "🇲🇬",
		Roles:       []string{"admin", "dirigeant", "pr", "pm", "mmrs", "mef", "bfm", "decentralisation", "tresor", "dgd", "com", "bcmm", "forets"},
		Permissions: []string{"dashboard_national", "pilotage_kpi", "alertes_strategiques"},
	},
	{
		Path: "/dashboard/regional", Label: "Vue régionale", Icon: "🗺️",
		Roles:       []string{"admin", "dirigeant", "region", "commune_agent", "decentralisation"},
		Permissions: []string{"dashboard_regional", "supervision_territoriale"},
	},
	{
		Path: "/dashboard/commune", Label: "Vue communale", Icon: "🏘️",
		Roles:       []string{"admin", "dirigeant", "commune_agent"},
		Permissions: []string{"admin_commune", "appui_fokontany"},
	},
	{
		Path: "/ma-carte", Label: "Ma carte (QR)", Icon: "📇",
		Roles:       []string{"acteur", "orpailleur", "admin", "dirigeant", "commune_agent"},
		Permissions: []string{"card_", "admin_commune"},
	},
	{
		Path: "/actors", Label: "Acteurs", Icon: "👥",
		Roles:       []string{"admin", "dirigeant", "commune_agent", "acteur", "orpailleur", "mmrs", "com", "forets"},
		Permissions: []string{"admin_commune", "supervision_territoriale", "card_validate_"},
	},
	{
		Path: "/lots", Label: "Lots", Icon: "📦",
		Roles:       []string{"admin", "dirigeant", "commune_agent", "acteur", "orpailleur", "mmrs", "com", "forets"},
		Permissions: []string{"pierre_declare_", "bois_declare_", "admin_filiere_"},
	},
	{
		Path: "/transactions", Label: "Transactions", Icon: "💳",
		Roles:       []string{"admin", "dirigeant", "commune_agent", "acteur", "orpailleur", "mmrs", "com", "forets"},
		Permissions: []string{"pierre_trade", "bois_trade", "admin_filiere_"},
	},
	{
		Path: "/exports", Label: "Dossiers export", Icon: "📤",
		Roles:       []string{"admin", "dirigeant", "commune_agent", "acteur", "mmrs", "com", "dgd"},
		Permissions: []string{"controle_export", "gue_export", "export_or_", "pierre_export", "bois_export"},
	},
	{
		Path: "/invoices", Label: "Factures", Icon: "🧾",
		Roles:       []string{"admin", "dirigeant", "commune_agent", "acteur", "orpailleur", "mmrs", "com", "forets"},
		Permissions: []string{"supervision_recettes", "parametrage_fiscal", "rapprochement", "admin_filiere_"},
	},
	{
		Path: "/ledger", Label: "Grand livre", Icon: "📒",
		Roles:       []string{"admin", "dirigeant", "commune_agent", "acteur", "orpailleur", "mmrs", "com", "forets"},
		Permissions: []string{"supervision_recettes", "rapprochement", "admin_filiere_"},
	},
	{
		Path: "/reports", Label: "Rapports", Icon: "📈",
		Roles:       []string{"admin", "dirigeant", "pr", "pm", "mmrs", "mef", "bfm", "region", "commune_agent", "decentralisation", "tresor", "dgd", "com", "bcmm", "forets"},
		Permissions: []string{"pilotage_kpi", "dashboard_", "supervision_recettes", "fournisseur_donnees"},
	},
	{
		Path: "/audit", Label: "Audit / Traces", Icon: "📋",
		Roles:       []string{"admin", "dirigeant", "bianco"},
		Permissions: []string{"audit_logs"},
	},
	{
		Path: "/inspections", Label: "Contrôles / Inspections", Icon: "🔍",
		Roles:       []string{"admin", "dirigeant", "mmrs", "dgd", "police", "gendarmerie", "forets"},
		Permissions: []string{"profil_controleur", "controle_export", "justice_requisition"},
	},
	{
		Path: "/violations", Label: "Violations", Icon: "⚠️",
		Roles:       []string{"admin", "dirigeant", "mmrs", "dgd", "police", "gendarmerie", "forets"},
		Permissions: []string{"profil_controleur", "controle_export", "justice_requisition"},
	},
	{
		Path: "/penalties", Label: "Pénalités", Icon: "💰",
		Roles:       []string{"admin", "dirigeant", "mmrs", "dgd", "police", "gendarmerie", "forets"},
		Permissions: []string{"profil_controleur", "controle_export", "justice_requisition"},
	},
	{
		Path: "/verify", Label: "Vérification acteur (QR)", Icon: "📱",
		Roles:       []string{"admin", "dirigeant", "dgd", "police", "gendarmerie", "commune_agent"},
		Permissions: []string{"profil_controleur", "audit_logs", "controle_export"},
	},
	{
		Path: "/admin", Label: "Administration", Icon: "⚙️",
		Roles:       []string{"admin", "dirigeant"},
		Permissions: []string{"admin_plateforme", "parametrage_fiscal"},
	},
}

// RoleLabels maps role codes to display names.
var RoleLabels = map[string]string{
	"admin":            "Administrateur",
	"dirigeant":        "Dirigeant",
	"pr":               "Présidence (PR)",
	"pm":               "Primature (PM)",
	"mmrs":             "MMRS (Mines)",
	"mef":              "MEF (Finances)",
	"bfm":              "BFM (Banque centrale)",
	"decentralisation": "Décentralisation",
	"region":           "Région",
	"commune_agent":    "Commune / Maire",
	"acteur":           "Acteur",
	"orpailleur":       "Orpailleur",
	"bianco":           "BIANCO",
	"police":           "Police",
	"gendarmerie":      "Gendarmerie",
	"dgd":              "Douanes (DGD)",
	"tresor":           "Trésor",
	"com":              "COM (Or)",
	"bcmm":             "BCMM (Cadastre minier)",
	"forets":           "Forêts / Environnement",
	"fokontany":        "Fokontany",
	"justice":          "Justice",
}

// CanAccessMenu reports whether at least one of the user's roles is in the
// item's static allow-list.
func CanAccessMenu(userRoles []string, item MenuItem) bool {
	for _, have := range userRoles {
		for _, want := range item.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// matchesPermissions reports whether any held permission matches one of
// the item's permission prefixes.
func matchesPermissions(perms []string, item MenuItem) bool {
	for _, p := range perms {
		for _, prefix := range item.Permissions {
			if strings.HasPrefix(p, prefix) {
				return true
			}
		}
	}
	return false
}

// VisibleByRoles filters the static table by the role allow-list.
func VisibleByRoles(userRoles []string) []MenuItem {
	var out []MenuItem
	for _, item := range MenuItems {
		if CanAccessMenu(userRoles, item) {
			out = append(out, item)
		}
	}
	return out
}

// VisibleByPermissions filters the static table by the selected role's
// permission set. Supervisor roles bypass the permission check entirely.
func VisibleByPermissions(selectedRole string, perms []string) []MenuItem {
	if _, ok := supervisorRoles[selectedRole]; ok {
		return append([]MenuItem(nil), MenuItems...)
	}
	var out []MenuItem
	for _, item := range MenuItems {
		if matchesPermissions(perms, item) {
			out = append(out, item)
		}
	}
	return out
}

// VisibleMenu computes the navigation set for an authenticated user with
// an explicit three-tier fallback:
//
//  1. permission-derived visibility for the selected role;
//  2. if that yields nothing, the static role-table visibility;
//  3. if that too yields nothing, the full unfiltered table.
//
// Legacy roles with no registered permissions must never end up with an
// empty menu, so the last tier is intentional.
func VisibleMenu(selectedRole string, userRoles []string, perms []string) []MenuItem {
	if len(perms) > 0 {
		if items := VisibleByPermissions(selectedRole, perms); len(items) > 0 {
			return items
		}
	}
	if items := VisibleByRoles(userRoles); len(items) > 0 {
		return items
	}
	return append([]MenuItem(nil), MenuItems...)
}

// AllowedPath reports whether path falls inside the visible set, allowing
// prefix matches so sub-routes (e.g. /lots/42) inherit their parent item.
// An empty visible set allows everything: redirecting against an empty
// allow-list would loop forever.
func AllowedPath(items []MenuItem, path string) bool {
	if len(items) == 0 {
		return true
	}
	for _, item := range items {
		if path == item.Path || strings.HasPrefix(path, item.Path+"/") {
			return true
		}
	}
	return false
}
