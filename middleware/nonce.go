package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"content-protect-assistant/utils"
)

const NonceHeader = "X-Assistant-Nonce"

// Nonces are HMACs over the user id and a 12 hour tick, so they are cheap to
// verify, expire on their own and never need server-side storage. A nonce
// from the previous tick is still accepted to avoid breaking sessions that
// straddle a boundary.
const nonceTick = 12 * time.Hour

// IssueNonce creates the anti-forgery nonce handed to the panel at bootstrap
func IssueNonce(secret, userID string) string {
	return nonceAt(secret, userID, time.Now())
}

// VerifyNonce checks a nonce against the current and previous tick
func VerifyNonce(secret, userID, nonce string) bool {
	if nonce == "" {
		return false
	}

	now := time.Now()
	current := nonceAt(secret, userID, now)
	previous := nonceAt(secret, userID, now.Add(-nonceTick))

	return hmac.Equal([]byte(nonce), []byte(current)) ||
		hmac.Equal([]byte(nonce), []byte(previous))
}

func nonceAt(secret, userID string, t time.Time) string {
	tick := t.Unix() / int64(nonceTick.Seconds())

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d:%s", tick, userID)

	return hex.EncodeToString(mac.Sum(nil))[:20]
}

// RequireNonce rejects requests whose anti-forgery nonce is missing or
// stale. Must run after RequireAdmin so the user id is known.
func RequireNonce(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce := c.GetHeader(NonceHeader)

		if !VerifyNonce(secret, GetUserID(c), nonce) {
			utils.RespondWithForbidden(c, "invalid_nonce", "Security check failed")
			c.Abort()
			return
		}

		c.Next()
	}
}
