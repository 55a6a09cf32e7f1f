package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns hex(HMAC_SHA256(secret, orderRef|paymentRef)), the value the
// provider's widget hands back to the browser on completion.
func Sign(secret []byte, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret []byte, orderRef, paymentRef, signature string) bool {
	expected := Sign(secret, orderRef, paymentRef)
	return hmac.Equal([]byte(expected), []byte(signature))
}
