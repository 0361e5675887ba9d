package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"jobboard_echo/internal/models"
	"jobboard_echo/internal/services"
)

// PaymentHandler owns the payer-facing payment flow: checkout (intent +
// gateway redirect URL), the gateway's browser return endpoint, and the
// explicit client verify endpoint. Return and verify converge on the same
// reconciler and must produce the same end state for a transaction.
type PaymentHandler struct {
	db          *gorm.DB
	gateway     *services.GatewayClient
	reconciler  *services.Reconciler
	intents     *services.IntentStore
	catalog     *services.PackageCatalog
	baseURL     string // where the gateway sends the browser back
	frontendURL string // where we send the browser after reconciling
}

func NewPaymentHandler(db *gorm.DB, gateway *services.GatewayClient, reconciler *services.Reconciler, intents *services.IntentStore, catalog *services.PackageCatalog, baseURL, frontendURL string) *PaymentHandler {
	return &PaymentHandler{
		db:          db,
		gateway:     gateway,
		reconciler:  reconciler,
		intents:     intents,
		catalog:     catalog,
		baseURL:     strings.TrimRight(baseURL, "/"),
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

type checkoutBannerRequest struct {
	PackageID uint   `json:"package_id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	TargetURL string `json:"target_url"`
	BankCode  string `json:"bank_code"`
}

type checkoutFeatureRequest struct {
	PackageID uint   `json:"package_id"`
	JobPostID uint   `json:"job_post_id"`
	BankCode  string `json:"bank_code"`
}

type checkoutResponse struct {
	TxnRef      string `json:"txn_ref"`
	RedirectURL string `json:"redirect_url"`
}

// CheckoutBanner creates a banner purchase intent and returns the signed
// gateway redirect URL. The price comes from the catalog, never the request.
func (h *PaymentHandler) CheckoutBanner(c echo.Context) error {
	var req checkoutBannerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.ImageURL == "" || req.TargetURL == "" {
		return &services.ValidationError{Field: "banner", Reason: "title, image_url and target_url are required"}
	}

	company, err := h.callerCompany(c)
	if err != nil {
		return err
	}

	pkg, err := h.purchasablePackage(c, req.PackageID, models.PackageKindBanner)
	if err != nil {
		return err
	}

	payload, _ := json.Marshal(models.BannerDraft{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
	})
	return h.createIntentAndRedirect(c, "BAN", company, pkg, payload, req.BankCode)
}

// CheckoutJobFeature creates a job-feature purchase intent for a job post
// owned by the caller's company.
func (h *PaymentHandler) CheckoutJobFeature(c echo.Context) error {
	var req checkoutFeatureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	company, err := h.callerCompany(c)
	if err != nil {
		return err
	}

	var jobPost models.JobPost
	if err := h.db.Where("id = ? AND company_id = ?", req.JobPostID, company.ID).First(&jobPost).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &services.ValidationError{Field: "job_post_id", Reason: "job post not found for your company"}
		}
		return err
	}

	pkg, err := h.purchasablePackage(c, req.PackageID, models.PackageKindJobFeature)
	if err != nil {
		return err
	}

	payload, _ := json.Marshal(models.FeatureDraft{JobPostID: jobPost.ID})
	return h.createIntentAndRedirect(c, "JOB", company, pkg, payload, req.BankCode)
}

func (h *PaymentHandler) createIntentAndRedirect(c echo.Context, prefix string, company *models.Company, pkg *models.Package, payload json.RawMessage, bankCode string) error {
	txnRef := fmt.Sprintf("%s-%s", prefix, uuid.NewString())

	intent := &models.PaymentIntent{
		TxnRef:    txnRef,
		UserID:    getUintFromContext(c, "userID"),
		CompanyID: company.ID,
		PackageID: pkg.ID,
		Payload:   payload,
	}
	if err := h.intents.Create(c.Request().Context(), intent); err != nil {
		return err
	}

	redirectURL := h.gateway.BuildRedirectURL(services.RedirectParams{
		TxnRef:    txnRef,
		Amount:    pkg.Price,
		ReturnURL: h.baseURL + "/payment/return",
		ClientIP:  c.RealIP(),
		OrderInfo: fmt.Sprintf("%s %s for company %d", pkg.Kind, pkg.Name, company.ID),
		BankCode:  bankCode,
	})

	log.Info().Str("txn_ref", txnRef).Uint("package_id", pkg.ID).
		Uint("company_id", company.ID).Msg("payment intent created")

	return c.JSON(http.StatusOK, checkoutResponse{TxnRef: txnRef, RedirectURL: redirectURL})
}

// GatewayReturn handles the browser-driven return redirect from the gateway.
// The signature is verified before anything else; an invalid callback never
// reaches the reconciler. The browser always ends up on the frontend result
// page with an outcome hint.
func (h *PaymentHandler) GatewayReturn(c echo.Context) error {
	params := c.QueryParams()
	result := h.gateway.VerifyCallback(params)
	h.logCallback(c, params, result)

	if !result.Valid {
		return c.Redirect(http.StatusFound, h.resultURL("invalid", ""))
	}

	rec, err := h.reconciler.Reconcile(c.Request().Context(), result.TxnRef, statusFromCode(result.ResponseCode), gatewayMeta(params))
	if err != nil {
		// Already logged where it matters; the payer gets a generic failure
		return c.Redirect(http.StatusFound, h.resultURL("error", result.TxnRef))
	}
	return c.Redirect(http.StatusFound, h.resultURL(outcomeParam(rec), result.TxnRef))
}

// VerifyPayment is the explicit client verification call: the frontend
// forwards the same gateway query string it landed with. Produces the same
// end state as GatewayReturn for the same transaction reference.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	params := c.QueryParams()
	result := h.gateway.VerifyCallback(params)
	h.logCallback(c, params, result)

	if !result.Valid {
		return services.ErrSignatureInvalid
	}

	rec, err := h.reconciler.Reconcile(c.Request().Context(), result.TxnRef, statusFromCode(result.ResponseCode), gatewayMeta(params))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *PaymentHandler) callerCompany(c echo.Context) (*models.Company, error) {
	userID := getUintFromContext(c, "userID")
	var company models.Company
	err := h.db.Where("owner_id = ?", userID).First(&company).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &services.ValidationError{Field: "company", Reason: "no company profile assigned to your account"}
		}
		return nil, err
	}
	return &company, nil
}

func (h *PaymentHandler) purchasablePackage(c echo.Context, id uint, kind models.PackageKind) (*models.Package, error) {
	pkg, err := h.catalog.GetPackage(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if pkg.Kind != kind || !pkg.Active {
		return nil, &services.ValidationError{Field: "package_id", Reason: fmt.Sprintf("package %d is not an active %s package", id, kind)}
	}
	return pkg, nil
}

// logCallback records every inbound callback, valid or not. Best effort:
// a failed audit write must not block reconciliation.
func (h *PaymentHandler) logCallback(c echo.Context, params url.Values, result services.CallbackResult) {
	entry := models.CallbackLog{
		TxnRef:   params.Get("mrc_TxnRef"),
		Valid:    result.Valid,
		RawQuery: params.Encode(),
	}
	if err := h.db.WithContext(c.Request().Context()).Create(&entry).Error; err != nil {
		log.Warn().Err(err).Str("txn_ref", entry.TxnRef).Msg("failed to record callback")
	}
}

func (h *PaymentHandler) resultURL(outcome, txnRef string) string {
	q := url.Values{}
	q.Set("outcome", outcome)
	if txnRef != "" {
		q.Set("txn_ref", txnRef)
	}
	return h.frontendURL + "/payment/result?" + q.Encode()
}

// statusFromCode maps the gateway response code onto an order status
func statusFromCode(code string) models.OrderStatus {
	switch code {
	case services.GatewayCodeSuccess:
		return models.OrderStatusPaid
	case services.GatewayCodeCancelled:
		return models.OrderStatusCancelled
	default:
		return models.OrderStatusFailed
	}
}

func outcomeParam(rec *services.ReconcileResult) string {
	if rec.Order == nil {
		return "none"
	}
	return string(rec.Order.Status)
}

// gatewayMeta keeps only the gateway's own fields, flattened, as the audit
// metadata stored on the order
func gatewayMeta(params url.Values) json.RawMessage {
	meta := map[string]string{}
	for k, vs := range params {
		if strings.HasPrefix(k, "mrc_") && len(vs) > 0 {
			meta[k] = vs[0]
		}
	}
	raw, _ := json.Marshal(meta)
	return raw
}
