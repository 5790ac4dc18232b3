package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes the booking lookup URL for a reservation code.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(code string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/api/reservations/%s/qrcode", g.BaseURL, code)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}

var _ QRGenerator = DefaultQRGenerator{}
