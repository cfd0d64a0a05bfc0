package helpers

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GenerateTicketQR renders the ticket's QR payload as a PNG data URL.
// The payload is plain display text derived from the buyer and event
// names; it carries no signature and must not be treated as an
// anti-counterfeiting token.
func GenerateTicketQR(buyerName, eventName string) (string, error) {
	payload := fmt.Sprintf("Event: %s | Name: %s", eventName, buyerName)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
