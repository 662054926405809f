package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewCertificateCode mints a globally unique, human-readable certificate
// code of the form CERT-<year>-<8 hex chars>.
func NewCertificateCode(now time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("CERT-%d-%s", now.Year(), strings.ToUpper(hex))
}
