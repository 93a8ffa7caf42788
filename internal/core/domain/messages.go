package domain

import "errors"

// messageLabels translates upstream error codes into user-facing French
// messages. Unknown codes fall through to the raw code so operators can
// still see what the API said.
var messageLabels = map[string]string{
	"token_manquant":          "Session expirée. Reconnectez-vous.",
	"token_invalide":          "Session invalide. Reconnectez-vous.",
	"refresh_invalide":        "Session invalide. Reconnectez-vous.",
	"refresh_expire":          "Session expirée. Reconnectez-vous.",
	"compte_inactif":          "Compte désactivé.",
	"identifiants_invalides":  "Identifiant ou mot de passe incorrect.",
	"auth_desactivee":         "Compte désactivé. Contactez l'administration.",
	"role_insuffisant":        "Droits insuffisants pour cette action.",
	"permission_insuffisante": "Habilitations insuffisantes.",
	"acces_refuse":            "Accès refusé.",
	"acces_refuse_region":     "Vous ne pouvez consulter que votre région.",
	"acces_refuse_commune":    "Vous ne pouvez consulter que votre commune.",
	"territoire_non_charge":   "Aucun territoire chargé. Importez un fichier territoire (admin).",
	"territoire_invalide":     "Région, district ou commune invalide.",
	"gps_obligatoire":         "Point GPS (lieu de déclaration) obligatoire.",
	"gps_introuvable":         "Point GPS introuvable.",
	"telephone_deja_utilise":  "Ce numéro est déjà utilisé.",
	"email_deja_utilise":      "Cet email est déjà utilisé.",
	"telephone_invalide":      "Téléphone invalide. Format : 03XXXXXXXX.",
	"roles_obligatoires":      "Au moins un rôle requis.",
	"role_deja_attribue":      "Ce rôle est déjà attribué.",
	"acteur_invalide":         "Acteur invalide.",
	"acteur_introuvable":      "Acteur introuvable.",
	"items_obligatoires":      "Ajoutez au moins une ligne (lot, quantité, prix).",
	"intervalle_invalide":     "La date de fin doit être après la date de début.",
	"region_introuvable":      "Région introuvable.",
	"commune_introuvable":     "Commune introuvable.",
}

// Fixed messages for errors raised by the gateway itself. Connectivity
// problems get an actionable message so users do not confuse a stopped
// backend with an expired session.
const (
	MsgSessionExpired      = "Session expirée. Reconnectez-vous."
	MsgUnauthenticated     = "Connectez-vous d'abord."
	MsgForbidden           = "Accès refusé."
	MsgUpstreamUnreachable = "Impossible de joindre l'API. Démarrez le backend (docker compose up -d) puis réessayez."
	MsgGenericError        = "Une erreur est survenue."
)

// MessageForCode translates an upstream error code. The raw code is
// returned unchanged when no label exists.
func MessageForCode(code string) string {
	if label, ok := messageLabels[code]; ok {
		return label
	}
	if code == "" {
		return MsgGenericError
	}
	return code
}

// MessageFor renders any gateway error as a user-facing message.
func MessageFor(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrUpstreamUnreachable):
		return MsgUpstreamUnreachable
	case errors.Is(err, ErrSessionExpired):
		return MsgSessionExpired
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrSessionNotFound):
		return MsgUnauthenticated
	case errors.Is(err, ErrForbidden):
		return MsgForbidden
	case errors.Is(err, ErrInvalidCredentials):
		return MessageForCode("identifiants_invalides")
	case errors.Is(err, ErrInvalidFiliere):
		return "Filière invalide (OR, PIERRE ou BOIS)."
	case errors.Is(err, ErrRoleRequired):
		return "Choisissez d'abord un rôle."
	case errors.Is(err, ErrInvalidTransition):
		return "Transition de statut non autorisée."
	case errors.As(err, &apiErr):
		return MessageForCode(apiErr.Code)
	default:
		return MsgGenericError
	}
}
