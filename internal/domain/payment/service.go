// internal/domain/payment/service.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrSignatureMissing = errors.New("payment: signature missing")
	ErrSignatureInvalid = errors.New("payment: signature invalid")
)

// StockLineResult describes what happened to one (product, color) variation.
type StockLineResult struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
	// Skipped is set when the product or variation no longer exists.
	Skipped bool `json:"skipped,omitempty"`
}

type StockResult struct {
	// Applied is false when the order was already stamped by an earlier delivery.
	Applied bool
	Lines   []StockLineResult
}

// StockApplier decrements variation stock for every line of an order exactly once.
// Implementations must read the order and products, decrement (floored at zero),
// and stamp order.stockAppliedBy = marker in a single atomic unit.
type StockApplier interface {
	ApplyOrderStock(ctx context.Context, orderID, marker string) (StockResult, error)
}

// VerifySignature checks a Mercado Pago "x-signature" header
// ("ts=<unix>,v1=<hex hmac>") against the manifest
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
func VerifySignature(secret, header, requestID, dataID string) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return ErrSignatureMissing
	}

	var ts, v1 string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "ts":
			ts = strings.TrimSpace(v)
		case "v1":
			v1 = strings.TrimSpace(v)
		}
	}
	if ts == "" || v1 == "" {
		return ErrSignatureInvalid
	}

	want := SignManifest(secret, Manifest(dataID, requestID, ts))
	if !hmac.Equal([]byte(strings.ToLower(v1)), []byte(want)) {
		return ErrSignatureInvalid
	}
	return nil
}

// Manifest builds the signed template. Empty parts are omitted, as the provider does.
func Manifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if id := strings.ToLower(strings.TrimSpace(dataID)); id != "" {
		b.WriteString("id:" + id + ";")
	}
	if rid := strings.TrimSpace(requestID); rid != "" {
		b.WriteString("request-id:" + rid + ";")
	}
	if ts != "" {
		b.WriteString("ts:" + ts + ";")
	}
	return b.String()
}

func SignManifest(secret, manifest string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}
