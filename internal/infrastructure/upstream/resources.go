package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// Compile-time check: the client covers the whole remote surface.
var _ ports.Upstream = (*Client)(nil)

// --- actors ---

func (c *Client) Actors(ctx context.Context, sess *domain.Session, q ports.ListQuery) (domain.Page[domain.Actor], error) {
	var page domain.Page[domain.Actor]
	err := c.do(ctx, sess, "actors.list", http.MethodGet, "/actors", listQuery(q), nil, &page)
	return page, err
}

func (c *Client) Actor(ctx context.Context, sess *domain.Session, id int) (*domain.Actor, error) {
	var actor domain.Actor
	if err := c.do(ctx, sess, "actors.get", http.MethodGet, fmt.Sprintf("/actors/%d", id), nil, nil, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

func (c *Client) CreateActor(ctx context.Context, sess *domain.Session, in ports.CreateActorInput) (*domain.Actor, error) {
	var actor domain.Actor
	if err := c.do(ctx, sess, "actors.create", http.MethodPost, "/actors", nil, in, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

func (c *Client) UpdateActorStatus(ctx context.Context, sess *domain.Session, id int, status string) (*domain.Actor, error) {
	var actor domain.Actor
	body := map[string]string{"status": status}
	if err := c.do(ctx, sess, "actors.status", http.MethodPatch, fmt.Sprintf("/actors/%d/status", id), nil, body, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

// --- lots ---

func (c *Client) Lots(ctx context.Context, sess *domain.Session, q ports.ListQuery) (domain.Page[domain.Lot], error) {
	var page domain.Page[domain.Lot]
	err := c.do(ctx, sess, "lots.list", http.MethodGet, "/lots", listQuery(q), nil, &page)
	return page, err
}

func (c *Client) Lot(ctx context.Context, sess *domain.Session, id int) (*domain.Lot, error) {
	var lot domain.Lot
	if err := c.do(ctx, sess, "lots.get", http.MethodGet, fmt.Sprintf("/lots/%d", id), nil, nil, &lot); err != nil {
		return nil, err
	}
	return &lot, nil
}

func (c *Client) CreateLot(ctx context.Context, sess *domain.Session, in ports.CreateLotInput) (*domain.Lot, error) {
	var lot domain.Lot
	if err := c.do(ctx, sess, "lots.create", http.MethodPost, "/lots", nil, in, &lot); err != nil {
		return nil, err
	}
	return &lot, nil
}

// --- transactions and payments ---

func (c *Client) Transactions(ctx context.Context, sess *domain.Session, q ports.ListQuery) (domain.Page[domain.Transaction], error) {
	var page domain.Page[domain.Transaction]
	err := c.do(ctx, sess, "transactions.list", http.MethodGet, "/transactions", listQuery(q), nil, &page)
	return page, err
}

func (c *Client) Transaction(ctx context.Context, sess *domain.Session, id int) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.do(ctx, sess, "transactions.get", http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) CreateTransaction(ctx context.Context, sess *domain.Session, in ports.CreateTransactionInput) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.do(ctx, sess, "transactions.create", http.MethodPost, "/transactions", nil, in, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) InitiatePayment(ctx context.Context, sess *domain.Session, transactionID int, in ports.InitiatePaymentInput) (*domain.Payment, error) {
	var payment domain.Payment
	path := fmt.Sprintf("/transactions/%d/payments", transactionID)
	if err := c.do(ctx, sess, "payments.initiate", http.MethodPost, path, nil, in, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) TransactionPayments(ctx context.Context, sess *domain.Session, transactionID int) ([]domain.Payment, error) {
	var payments []domain.Payment
	path := fmt.Sprintf("/transactions/%d/payments", transactionID)
	if err := c.do(ctx, sess, "payments.list", http.MethodGet, path, nil, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// --- exports ---

func (c *Client) Exports(ctx context.Context, sess *domain.Session, q ports.ListQuery) ([]domain.ExportDossier, error) {
	var dossiers []domain.ExportDossier
	if err := c.do(ctx, sess, "exports.list", http.MethodGet, "/exports", listQuery(q), nil, &dossiers); err != nil {
		return nil, err
	}
	return dossiers, nil
}

func (c *Client) Export(ctx context.Context, sess *domain.Session, id int) (*domain.ExportDossier, error) {
	var dossier domain.ExportDossier
	if err := c.do(ctx, sess, "exports.get", http.MethodGet, fmt.Sprintf("/exports/%d", id), nil, nil, &dossier); err != nil {
		return nil, err
	}
	return &dossier, nil
}

func (c *Client) CreateExport(ctx context.Context, sess *domain.Session, in ports.CreateExportInput) (*domain.ExportDossier, error) {
	var dossier domain.ExportDossier
	if err := c.do(ctx, sess, "exports.create", http.MethodPost, "/exports", nil, in, &dossier); err != nil {
		return nil, err
	}
	return &dossier, nil
}

func (c *Client) UpdateExportStatus(ctx context.Context, sess *domain.Session, id int, status domain.ExportStatus) (*domain.ExportDossier, error) {
	var dossier domain.ExportDossier
	body := map[string]string{"status": string(status)}
	path := fmt.Sprintf("/exports/%d/status", id)
	if err := c.do(ctx, sess, "exports.status", http.MethodPatch, path, nil, body, &dossier); err != nil {
		return nil, err
	}
	return &dossier, nil
}

func (c *Client) LinkLots(ctx context.Context, sess *domain.Session, exportID int, lots []domain.ExportLot) (*domain.ExportDossier, error) {
	var dossier domain.ExportDossier
	body := map[string][]domain.ExportLot{"lots": lots}
	path := fmt.Sprintf("/exports/%d/lots", exportID)
	if err := c.do(ctx, sess, "exports.lots", http.MethodPost, path, nil, body, &dossier); err != nil {
		return nil, err
	}
	return &dossier, nil
}

// --- invoices and ledger ---

func (c *Client) Invoices(ctx context.Context, sess *domain.Session, q ports.ListQuery) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	if err := c.do(ctx, sess, "invoices.list", http.MethodGet, "/invoices", listQuery(q), nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (c *Client) Invoice(ctx context.Context, sess *domain.Session, id int) (*domain.Invoice, error) {
	var invoice domain.Invoice
	if err := c.do(ctx, sess, "invoices.get", http.MethodGet, fmt.Sprintf("/invoices/%d", id), nil, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *Client) LedgerEntries(ctx context.Context, sess *domain.Session, q ports.ListQuery) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	if err := c.do(ctx, sess, "ledger.list", http.MethodGet, "/ledger", listQuery(q), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) LedgerBalance(ctx context.Context, sess *domain.Session, actorID int) (*domain.LedgerBalance, error) {
	var balance domain.LedgerBalance
	path := fmt.Sprintf("/ledger/balance/%d", actorID)
	if err := c.do(ctx, sess, "ledger.balance", http.MethodGet, path, nil, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// --- inspections, violations, penalties ---

func (c *Client) Inspections(ctx context.Context, sess *domain.Session, q ports.ListQuery) ([]domain.Inspection, error) {
	var inspections []domain.Inspection
	if err := c.do(ctx, sess, "inspections.list", http.MethodGet, "/inspections", listQuery(q), nil, &inspections); err != nil {
		return nil, err
	}
	return inspections, nil
}

func (c *Client) CreateInspection(ctx context.Context, sess *domain.Session, in ports.CreateInspectionInput) (*domain.Inspection, error) {
	var inspection domain.Inspection
	if err := c.do(ctx, sess, "inspections.create", http.MethodPost, "/inspections", nil, in, &inspection); err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (c *Client) Violations(ctx context.Context, sess *domain.Session, inspectionID int) ([]domain.Violation, error) {
	query := url.Values{}
	if inspectionID > 0 {
		query.Set("inspection_id", fmt.Sprint(inspectionID))
	}
	var violations []domain.Violation
	if err := c.do(ctx, sess, "violations.list", http.MethodGet, "/violations", query, nil, &violations); err != nil {
		return nil, err
	}
	return violations, nil
}

func (c *Client) CreateViolation(ctx context.Context, sess *domain.Session, in ports.CreateViolationInput) (*domain.Violation, error) {
	var violation domain.Violation
	if err := c.do(ctx, sess, "violations.create", http.MethodPost, "/violations", nil, in, &violation); err != nil {
		return nil, err
	}
	return &violation, nil
}

func (c *Client) Penalties(ctx context.Context, sess *domain.Session, violationCaseID int) ([]domain.Penalty, error) {
	query := url.Values{}
	if violationCaseID > 0 {
		query.Set("violation_case_id", fmt.Sprint(violationCaseID))
	}
	var penalties []domain.Penalty
	if err := c.do(ctx, sess, "penalties.list", http.MethodGet, "/penalties", query, nil, &penalties); err != nil {
		return nil, err
	}
	return penalties, nil
}

func (c *Client) CreatePenalty(ctx context.Context, sess *domain.Session, in ports.CreatePenaltyInput) (*domain.Penalty, error) {
	var penalty domain.Penalty
	if err := c.do(ctx, sess, "penalties.create", http.MethodPost, "/penalties", nil, in, &penalty); err != nil {
		return nil, err
	}
	return &penalty, nil
}

// --- public verification, dashboards, reports ---

// Verify is public: no session, no bearer, no refresh.
func (c *Client) Verify(ctx context.Context, kind string, id int) (*domain.VerifyResult, error) {
	var result domain.VerifyResult
	path := fmt.Sprintf("/verify/%s/%d", url.PathEscape(kind), id)
	if err := c.do(ctx, nil, "verify.get", http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Dashboard(ctx context.Context, sess *domain.Session, scope string, q ports.ListQuery) (*domain.DashboardSummary, error) {
	var summary domain.DashboardSummary
	path := "/dashboards/" + url.PathEscape(scope)
	if err := c.do(ctx, sess, "dashboards.get", http.MethodGet, path, listQuery(q), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) Report(ctx context.Context, sess *domain.Session, scope string, q ports.ListQuery) (*domain.Report, error) {
	var report domain.Report
	path := "/reports/" + url.PathEscape(scope)
	if err := c.do(ctx, sess, "reports.get", http.MethodGet, path, listQuery(q), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// --- territories and geo-points ---

func (c *Client) Regions(ctx context.Context, sess *domain.Session) ([]domain.Territory, error) {
	return c.territories(ctx, sess, "territories.regions", "/territories/regions", nil)
}

func (c *Client) Districts(ctx context.Context, sess *domain.Session, regionCode string) ([]domain.Territory, error) {
	return c.territories(ctx, sess, "territories.districts", "/territories/districts",
		url.Values{"region_code": {regionCode}})
}

func (c *Client) Communes(ctx context.Context, sess *domain.Session, districtCode string) ([]domain.Territory, error) {
	return c.territories(ctx, sess, "territories.communes", "/territories/communes",
		url.Values{"district_code": {districtCode}})
}

func (c *Client) Fokontany(ctx context.Context, sess *domain.Session, communeCode string) ([]domain.Territory, error) {
	return c.territories(ctx, sess, "territories.fokontany", "/territories/fokontany",
		url.Values{"commune_code": {communeCode}})
}

func (c *Client) territories(ctx context.Context, sess *domain.Session, op, path string, query url.Values) ([]domain.Territory, error) {
	var items []domain.Territory
	if err := c.do(ctx, sess, op, http.MethodGet, path, query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateGeoPoint(ctx context.Context, sess *domain.Session, in ports.CreateGeoPointInput) (*domain.GeoPoint, error) {
	var point domain.GeoPoint
	if err := c.do(ctx, sess, "geopoints.create", http.MethodPost, "/geo-points", nil, in, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

// --- admin configuration ---

func (c *Client) ConfigEntries(ctx context.Context, sess *domain.Session) ([]domain.ConfigEntry, error) {
	var entries []domain.ConfigEntry
	if err := c.do(ctx, sess, "config.list", http.MethodGet, "/admin/config", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreateConfigEntry(ctx context.Context, sess *domain.Session, in ports.ConfigInput) (*domain.ConfigEntry, error) {
	var entry domain.ConfigEntry
	if err := c.do(ctx, sess, "config.create", http.MethodPost, "/admin/config", nil, in, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateConfigEntry(ctx context.Context, sess *domain.Session, id int, in ports.ConfigInput) (*domain.ConfigEntry, error) {
	var entry domain.ConfigEntry
	path := fmt.Sprintf("/admin/config/%d", id)
	if err := c.do(ctx, sess, "config.update", http.MethodPut, path, nil, in, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) DeleteConfigEntry(ctx context.Context, sess *domain.Session, id int) error {
	path := fmt.Sprintf("/admin/config/%d", id)
	return c.do(ctx, sess, "config.delete", http.MethodDelete, path, nil, nil, nil)
}
