package domain

import "time"

// Typed schemas for every upstream resource the gateway proxies. The
// upstream responses are decoded into these at the client boundary so
// untyped payloads never reach the UI.

// Actor is a registered participant (miner, collector, trader, …).
type Actor struct {
	ID           int        `json:"id"`
	TypePersonne string     `json:"type_personne,omitempty"`
	Nom          string     `json:"nom"`
	Prenoms      string     `json:"prenoms,omitempty"`
	Email        string     `json:"email,omitempty"`
	Telephone    string     `json:"telephone,omitempty"`
	Status       string     `json:"status"`
	RegionCode   string     `json:"region_code,omitempty"`
	DistrictCode string     `json:"district_code,omitempty"`
	CommuneCode  string     `json:"commune_code,omitempty"`
	Roles        []ActorRole `json:"roles,omitempty"`
	Filieres     []Filiere  `json:"filieres,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// Lot is a declared unit of physical production or inventory.
type Lot struct {
	ID           int               `json:"id"`
	Filiere      Filiere           `json:"filiere"`
	SousFiliere  string            `json:"sous_filiere,omitempty"`
	ProductType  string            `json:"product_type,omitempty"`
	Unit         string            `json:"unit"`
	Quantity     float64           `json:"quantity"`
	VolumeM3     float64           `json:"volume_m3,omitempty"`
	WoodEssence  string            `json:"wood_essence,omitempty"`
	WoodForm     string            `json:"wood_form,omitempty"`
	Status       string            `json:"status"`
	OwnerActorID int               `json:"owner_actor_id,omitempty"`
	GeoPointID   int               `json:"geo_point_id,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	CreatedAt    *time.Time        `json:"created_at,omitempty"`
}

// Transaction is a trade of a lot between two actors.
type Transaction struct {
	ID            int        `json:"id"`
	SellerActorID int        `json:"seller_actor_id"`
	BuyerActorID  int        `json:"buyer_actor_id"`
	LotID         int        `json:"lot_id"`
	Quantity      float64    `json:"quantity"`
	UnitPrice     float64    `json:"unit_price"`
	Status        string     `json:"status"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Payment is one payment attempt attached to a transaction.
type Payment struct {
	ID            int        `json:"id"`
	TransactionID int        `json:"transaction_id"`
	ProviderCode  string     `json:"provider_code"`
	ExternalRef   string     `json:"external_ref,omitempty"`
	Status        string     `json:"status"`
	Amount        float64    `json:"amount,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Invoice is a billing document issued for a transaction.
type Invoice struct {
	ID            int        `json:"id"`
	TransactionID int        `json:"transaction_id,omitempty"`
	Number        string     `json:"number,omitempty"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency,omitempty"`
	Status        string     `json:"status,omitempty"`
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
}

// LedgerEntry is one line of the double-entry ledger kept upstream.
type LedgerEntry struct {
	ID        int        `json:"id"`
	ActorID   int        `json:"actor_id,omitempty"`
	LotID     int        `json:"lot_id,omitempty"`
	EntryType string     `json:"entry_type,omitempty"`
	Debit     float64    `json:"debit,omitempty"`
	Credit    float64    `json:"credit,omitempty"`
	Label     string     `json:"label,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// LedgerBalance summarises an actor's ledger position.
type LedgerBalance struct {
	ActorID int     `json:"actor_id,omitempty"`
	Debit   float64 `json:"debit"`
	Credit  float64 `json:"credit"`
	Balance float64 `json:"balance"`
}

// Inspection records a field control on an actor, lot or invoice.
type Inspection struct {
	ID                 int        `json:"id"`
	InspectedActorID   int        `json:"inspected_actor_id,omitempty"`
	InspectedLotID     int        `json:"inspected_lot_id,omitempty"`
	InspectedInvoiceID int        `json:"inspected_invoice_id,omitempty"`
	Result             string     `json:"result"`
	ReasonCode         string     `json:"reason_code,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	GeoPointID         int        `json:"geo_point_id,omitempty"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
}

// Violation is a case opened from a failed inspection.
type Violation struct {
	ID            int        `json:"id"`
	InspectionID  int        `json:"inspection_id"`
	ViolationType string     `json:"violation_type"`
	LegalBasisRef string     `json:"legal_basis_ref,omitempty"`
	Status        string     `json:"status,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Penalty is a sanction attached to a violation case.
type Penalty struct {
	ID              int        `json:"id"`
	ViolationCaseID int        `json:"violation_case_id"`
	PenaltyType     string     `json:"penalty_type"`
	Amount          float64    `json:"amount,omitempty"`
	Status          string     `json:"status,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// GeoPoint is a captured GPS location.
type GeoPoint struct {
	ID        int     `json:"id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	AccuracyM float64 `json:"accuracy_m,omitempty"`
	Source    string  `json:"source,omitempty"`
}

// VerifyResult is the public verification payload behind a QR scan.
type VerifyResult struct {
	Kind    string         `json:"kind"`
	ID      int            `json:"id"`
	Valid   bool           `json:"valid"`
	Status  string         `json:"status,omitempty"`
	Label   string         `json:"label,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// DashboardSummary carries the aggregate indicators for one scope.
type DashboardSummary struct {
	Scope             string  `json:"scope"`
	ActorsTotal       int     `json:"actors_total"`
	LotsTotal         int     `json:"lots_total"`
	TransactionsTotal int     `json:"transactions_total"`
	ExportsTotal      int     `json:"exports_total"`
	VolumeTotal       float64 `json:"volume_total,omitempty"`
	RevenueTotal      float64 `json:"revenue_total,omitempty"`
}

// Report is a generated reporting document for one scope.
type Report struct {
	Scope       string         `json:"scope"`
	DateFrom    string         `json:"date_from,omitempty"`
	DateTo      string         `json:"date_to,omitempty"`
	Indicators  map[string]any `json:"indicators,omitempty"`
	GeneratedAt *time.Time     `json:"generated_at,omitempty"`
}

// ConfigEntry is one platform configuration value managed by admins.
type ConfigEntry struct {
	ID    int    `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
	Scope string `json:"scope,omitempty"`
}

// Page is the pagination envelope used by upstream list endpoints.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total,omitempty"`
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}
