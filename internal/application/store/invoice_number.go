package store

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NumberGenerator produces a fresh invoice number for the given instant
type NumberGenerator func(now time.Time) string

// NewInvoiceNumber returns INV-<unix millis>-<4 random base36 characters>
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", entity.InvoiceNumberPrefix, now.UnixMilli(), randomSuffix(4))
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(base36Upper)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			idx = big.NewInt(time.Now().UnixNano() % int64(len(base36Upper)))
		}
		b[i] = base36Upper[idx.Int64()]
	}
	return string(b)
}
