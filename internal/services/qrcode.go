package services

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// TicketQRPayload is the plain-text payload encoded into a ticket's QR
// image. Scanners parse the three lines back out with ParseTicketQRPayload.
func TicketQRPayload(eventTitle, ticketID, userEmail string) string {
	return fmt.Sprintf("EVENT: %s\nTICKET: %s\nUSER: %s", eventTitle, ticketID, userEmail)
}

// GenerateTicketQR renders the payload as a 256x256 PNG.
func GenerateTicketQR(eventTitle, ticketID, userEmail string) ([]byte, error) {
	payload := TicketQRPayload(eventTitle, ticketID, userEmail)
	return qrcode.Encode(payload, qrcode.Medium, 256)
}

// ParseTicketQRPayload decodes a scanned payload into its three fields.
func ParseTicketQRPayload(payload string) (eventTitle, ticketID, userEmail string, err error) {
	lines := strings.Split(payload, "\n")
	if len(lines) != 3 ||
		!strings.HasPrefix(lines[0], "EVENT: ") ||
		!strings.HasPrefix(lines[1], "TICKET: ") ||
		!strings.HasPrefix(lines[2], "USER: ") {
		return "", "", "", fmt.Errorf("invalid ticket QR payload")
	}
	eventTitle = strings.TrimPrefix(lines[0], "EVENT: ")
	ticketID = strings.TrimPrefix(lines[1], "TICKET: ")
	userEmail = strings.TrimPrefix(lines[2], "USER: ")
	return eventTitle, ticketID, userEmail, nil
}
