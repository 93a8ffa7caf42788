package ports

import (
	"context"

	"github.com/madavola/tracegate/internal/core/domain"
)

// ListQuery is the common pagination/filter envelope for list endpoints.
// Zero values are omitted from the outgoing query string.
type ListQuery struct {
	Page     int
	PageSize int
	Status   string
	Role     string
	Commune  string
	ActorID  int
	LotID    int
	DateFrom string
	DateTo   string
}

// CreateActorInput carries a new actor registration.
type CreateActorInput struct {
	TypePersonne  string            `json:"type_personne"`
	Nom           string            `json:"nom"`
	Prenoms       string            `json:"prenoms,omitempty"`
	Email         string            `json:"email,omitempty"`
	Telephone     string            `json:"telephone"`
	Password      string            `json:"password,omitempty"`
	RegionCode    string            `json:"region_code"`
	DistrictCode  string            `json:"district_code"`
	CommuneCode   string            `json:"commune_code"`
	FokontanyCode string            `json:"fokontany_code,omitempty"`
	GeoPointID    int               `json:"geo_point_id,omitempty"`
	Roles         []string          `json:"roles"`
	Filieres      []domain.Filiere  `json:"filieres"`
}

// CreateLotInput carries a new lot declaration.
type CreateLotInput struct {
	Filiere     domain.Filiere    `json:"filiere"`
	SousFiliere string            `json:"sous_filiere,omitempty"`
	ProductType string            `json:"product_type,omitempty"`
	Unit        string            `json:"unit"`
	Quantity    float64           `json:"quantity"`
	VolumeM3    float64           `json:"volume_m3,omitempty"`
	WoodEssence string            `json:"wood_essence,omitempty"`
	WoodForm    string            `json:"wood_form,omitempty"`
	GeoPointID  int               `json:"geo_point_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// CreateTransactionInput carries a new trade.
type CreateTransactionInput struct {
	SellerActorID int     `json:"seller_actor_id"`
	BuyerActorID  int     `json:"buyer_actor_id"`
	LotID         int     `json:"lot_id"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
}

// InitiatePaymentInput starts a payment on a transaction.
type InitiatePaymentInput struct {
	ProviderCode   string `json:"provider_code"`
	ExternalRef    string `json:"external_ref,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// CreateExportInput opens a new export dossier.
type CreateExportInput struct {
	Destination string  `json:"destination,omitempty"`
	TotalWeight float64 `json:"total_weight,omitempty"`
}

// CreateInspectionInput records a field control.
type CreateInspectionInput struct {
	InspectedActorID   int    `json:"inspected_actor_id,omitempty"`
	InspectedLotID     int    `json:"inspected_lot_id,omitempty"`
	InspectedInvoiceID int    `json:"inspected_invoice_id,omitempty"`
	Result             string `json:"result"`
	ReasonCode         string `json:"reason_code,omitempty"`
	Notes              string `json:"notes,omitempty"`
	GeoPointID         int    `json:"geo_point_id,omitempty"`
}

// CreateViolationInput opens a violation case.
type CreateViolationInput struct {
	InspectionID  int    `json:"inspection_id"`
	ViolationType string `json:"violation_type"`
	LegalBasisRef string `json:"legal_basis_ref,omitempty"`
}

// CreatePenaltyInput attaches a penalty to a violation case.
type CreatePenaltyInput struct {
	ViolationCaseID int     `json:"violation_case_id"`
	PenaltyType     string  `json:"penalty_type"`
	Amount          float64 `json:"amount,omitempty"`
}

// CreateGeoPointInput captures a GPS location.
type CreateGeoPointInput struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	AccuracyM float64 `json:"accuracy_m,omitempty"`
	Source    string  `json:"source,omitempty"`
}

// ConfigInput creates or updates a platform configuration entry.
type ConfigInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Scope string `json:"scope,omitempty"`
}

// ActorGateway proxies actor registration and lookup.
type ActorGateway interface {
	Actors(ctx context.Context, sess *domain.Session, q ListQuery) (domain.Page[domain.Actor], error)
	Actor(ctx context.Context, sess *domain.Session, id int) (*domain.Actor, error)
	CreateActor(ctx context.Context, sess *domain.Session, in CreateActorInput) (*domain.Actor, error)
	UpdateActorStatus(ctx context.Context, sess *domain.Session, id int, status string) (*domain.Actor, error)
}

// LotGateway proxies lot declaration and lookup.
type LotGateway interface {
	Lots(ctx context.Context, sess *domain.Session, q ListQuery) (domain.Page[domain.Lot], error)
	Lot(ctx context.Context, sess *domain.Session, id int) (*domain.Lot, error)
	CreateLot(ctx context.Context, sess *domain.Session, in CreateLotInput) (*domain.Lot, error)
}

// TradeGateway proxies transactions and payments.
type TradeGateway interface {
	Transactions(ctx context.Context, sess *domain.Session, q ListQuery) (domain.Page[domain.Transaction], error)
	Transaction(ctx context.Context, sess *domain.Session, id int) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, sess *domain.Session, in CreateTransactionInput) (*domain.Transaction, error)
	InitiatePayment(ctx context.Context, sess *domain.Session, transactionID int, in InitiatePaymentInput) (*domain.Payment, error)
	TransactionPayments(ctx context.Context, sess *domain.Session, transactionID int) ([]domain.Payment, error)
}

// ExportGateway proxies export dossiers.
type ExportGateway interface {
	Exports(ctx context.Context, sess *domain.Session, q ListQuery) ([]domain.ExportDossier, error)
	Export(ctx context.Context, sess *domain.Session, id int) (*domain.ExportDossier, error)
	CreateExport(ctx context.Context, sess *domain.Session, in CreateExportInput) (*domain.ExportDossier, error)
	UpdateExportStatus(ctx context.Context, sess *domain.Session, id int, status domain.ExportStatus) (*domain.ExportDossier, error)
	LinkLots(ctx context.Context, sess *domain.Session, exportID int, lots []domain.ExportLot) (*domain.ExportDossier, error)
}

// FinanceGateway proxies invoices and the ledger.
type FinanceGateway interface {
	Invoices(ctx context.Context, sess *domain.Session, q ListQuery) ([]domain.Invoice, error)
	Invoice(ctx context.Context, sess *domain.Session, id int) (*domain.Invoice, error)
	LedgerEntries(ctx context.Context, sess *domain.Session, q ListQuery) ([]domain.LedgerEntry, error)
	LedgerBalance(ctx context.Context, sess *domain.Session, actorID int) (*domain.LedgerBalance, error)
}

// ControlGateway proxies inspections, violations and penalties.
type ControlGateway interface {
	Inspections(ctx context.Context, sess *domain.Session, q ListQuery) ([]domain.Inspection, error)
	CreateInspection(ctx context.Context, sess *domain.Session, in CreateInspectionInput) (*domain.Inspection, error)
	Violations(ctx context.Context, sess *domain.Session, inspectionID int) ([]domain.Violation, error)
	CreateViolation(ctx context.Context, sess *domain.Session, in CreateViolationInput) (*domain.Violation, error)
	Penalties(ctx context.Context, sess *domain.Session, violationCaseID int) ([]domain.Penalty, error)
	CreatePenalty(ctx context.Context, sess *domain.Session, in CreatePenaltyInput) (*domain.Penalty, error)
}

// ReferenceGateway proxies public verification, dashboards, reports,
// territories and geo-points.
type ReferenceGateway interface {
	Verify(ctx context.Context, kind string, id int) (*domain.VerifyResult, error)
	Dashboard(ctx context.Context, sess *domain.Session, scope string, q ListQuery) (*domain.DashboardSummary, error)
	Report(ctx context.Context, sess *domain.Session, scope string, q ListQuery) (*domain.Report, error)
	Regions(ctx context.Context, sess *domain.Session) ([]domain.Territory, error)
	Districts(ctx context.Context, sess *domain.Session, regionCode string) ([]domain.Territory, error)
	Communes(ctx context.Context, sess *domain.Session, districtCode string) ([]domain.Territory, error)
	Fokontany(ctx context.Context, sess *domain.Session, communeCode string) ([]domain.Territory, error)
	CreateGeoPoint(ctx context.Context, sess *domain.Session, in CreateGeoPointInput) (*domain.GeoPoint, error)
}

// AdminGateway proxies platform configuration management.
type AdminGateway interface {
	ConfigEntries(ctx context.Context, sess *domain.Session) ([]domain.ConfigEntry, error)
	CreateConfigEntry(ctx context.Context, sess *domain.Session, in ConfigInput) (*domain.ConfigEntry, error)
	UpdateConfigEntry(ctx context.Context, sess *domain.Session, id int, in ConfigInput) (*domain.ConfigEntry, error)
	DeleteConfigEntry(ctx context.Context, sess *domain.Session, id int) error
}

// Upstream is the full remote API surface, implemented by the HTTP client.
type Upstream interface {
	AuthGateway
	RBACGateway
	ActorGateway
	LotGateway
	TradeGateway
	ExportGateway
	FinanceGateway
	ControlGateway
	ReferenceGateway
	AdminGateway
}
