package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Gateway callback response codes
const (
	GatewayCodeSuccess   = "00"
	GatewayCodeCancelled = "24"
)

// GatewayClient builds outbound redirect URLs for the payment gateway and
// verifies inbound callback signatures. Both directions use the same
// canonical encoding: parameters sorted by key, URL-encoded, joined with
// '&', signed with HMAC-SHA512 over the merchant secret. The secret is only
// ever used to sign; it never appears in a URL.
type GatewayClient struct {
	MerchantCode string
	PayURL       string
	secretKey    string
}

func NewGatewayClient(merchantCode, secretKey, payURL string) *GatewayClient {
	return &GatewayClient{
		MerchantCode: merchantCode,
		PayURL:       payURL,
		secretKey:    secretKey,
	}
}

// RedirectParams carries the fields the gateway requires on the pay page
// redirect. Amount is in the minor currency unit; the wire format is the
// minor unit times 100, per gateway convention.
type RedirectParams struct {
	TxnRef    string
	Amount    int64
	ReturnURL string
	ClientIP  string
	OrderInfo string
	BankCode  string
}

// BuildRedirectURL produces the signed gateway redirect URL. Deterministic:
// the same params always produce the same URL.
func (g *GatewayClient) BuildRedirectURL(p RedirectParams) string {
	params := url.Values{}
	params.Set("mrc_MerchantCode", g.MerchantCode)
	params.Set("mrc_Amount", strconv.FormatInt(p.Amount*100, 10))
	params.Set("mrc_TxnRef", p.TxnRef)
	params.Set("mrc_ReturnURL", p.ReturnURL)
	params.Set("mrc_ClientIP", p.ClientIP)
	params.Set("mrc_OrderInfo", p.OrderInfo)
	if p.BankCode != "" {
		params.Set("mrc_BankCode", p.BankCode)
	}

	sig := g.sign(params)
	params.Set("sig", sig)
	return g.PayURL + "?" + params.Encode()
}

// CallbackResult is the outcome of verifying an inbound gateway callback.
// When Valid is false no other field may be trusted.
type CallbackResult struct {
	Valid        bool
	TxnRef       string
	ResponseCode string
	Amount       int64 // minor currency unit
}

// VerifyCallback recomputes the signature over the callback's parameters and
// compares it with the one the gateway sent. This path is reachable by
// unauthenticated requests: malformed or incomplete input yields
// Valid=false, never an error or panic.
func (g *GatewayClient) VerifyCallback(params url.Values) CallbackResult {
	given := params.Get("sig")
	if given == "" {
		return CallbackResult{Valid: false}
	}

	unsigned := url.Values{}
	for k, vs := range params {
		if k == "sig" || len(vs) == 0 {
			continue
		}
		unsigned.Set(k, vs[0])
	}

	want := g.sign(unsigned)
	if !hmac.Equal([]byte(given), []byte(want)) {
		return CallbackResult{Valid: false}
	}

	amount, _ := strconv.ParseInt(params.Get("mrc_Amount"), 10, 64)
	return CallbackResult{
		Valid:        true,
		TxnRef:       params.Get("mrc_TxnRef"),
		ResponseCode: params.Get("mrc_ResponseCode"),
		Amount:       amount / 100,
	}
}

// sign computes hex(HMAC-SHA512(secret, canonical(params)))
func (g *GatewayClient) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(k)))
	}

	mac := hmac.New(sha512.New, []byte(g.secretKey))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}
