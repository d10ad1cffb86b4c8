package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

func RandomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Identifiant de corrélation pour les logs (un par requête HTTP)
func GenerateRequestID() string {
	return fmt.Sprintf("%d%s", time.Now().UnixNano(), RandomHex(2))
}
