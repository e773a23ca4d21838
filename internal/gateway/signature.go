package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyPaymentSignature checks a client-submitted confirmation signature:
// HMAC-SHA256 over "<gatewayOrderID>|<gatewayPaymentID>" keyed with the API
// secret, hex-encoded. Pure function, no I/O.
func VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature, secret string) bool {
	return verifyHMAC([]byte(gatewayOrderID+"|"+gatewayPaymentID), signature, secret)
}

// VerifyWebhookSignature checks the signature header against the raw request
// body. The payload must be the exact bytes received on the wire;
// re-serialized JSON will not match.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	return verifyHMAC(payload, signatureHeader, webhookSecret)
}

func verifyHMAC(message []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
