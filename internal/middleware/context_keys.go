package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// sellerIDKey is the key used to store the authenticated seller's ID.
const sellerIDKey = contextKey("sellerID")

// WithSellerID returns a copy of ctx carrying sellerID.
func WithSellerID(ctx context.Context, sellerID string) context.Context {
	return context.WithValue(ctx, sellerIDKey, sellerID)
}

// GetSellerIDFromContext retrieves the authenticated seller ID from the Gin context.
// It returns the seller ID and a boolean indicating if it was found.
func GetSellerIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(sellerIDKey)); exists {
		sellerID, ok := v.(string)
		return sellerID, ok && sellerID != ""
	}
	sellerID, ok := c.Request.Context().Value(sellerIDKey).(string)
	return sellerID, ok && sellerID != ""
}
