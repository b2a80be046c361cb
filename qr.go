package main

import (
	"log"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// ServeJoinQR writes a PNG QR code encoding the seat-two join URL for a
// session, so a second player can scan it from a phone
func ServeJoinQR(hub *Hub, w http.ResponseWriter, sessionID string) {
	if hub.sessions.GetSession(sessionID) == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	png, err := qrcode.Encode(hub.joinURL(sessionID), qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("qr encode: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
