package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key for
// wrapping per-file keys. Key material is zeroed from memory after encoding.
// If keyID is empty, generates a default ID in format "master-key-YYYY-MM-DD".
//
// Output format:
//   - MASTER_KEYS="<keyID>:<base64-encoded-key>"
//   - ACTIVE_MASTER_KEY_ID="<keyID>"
//
// Security: store the output in a secrets manager, never in version control.
// For cloud KMS wrapping set KMS_KEY_URI instead of using master keys.
func RunCreateMasterKey(w io.Writer, keyID string) error {
	// Generate default key ID if not provided
	if keyID == "" {
		keyID = fmt.Sprintf("master-key-%s", time.Now().Format("2006-01-02"))
	}

	// Generate a cryptographically secure 32-byte master key
	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(masterKey)

	fmt.Fprintln(w, "# Master Key Configuration")
	fmt.Fprintln(w, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "MASTER_KEYS=\"%s:%s\"\n", keyID, encodedKey)
	fmt.Fprintf(w, "ACTIVE_MASTER_KEY_ID=\"%s\"\n", keyID)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# For key rotation, append the new key and switch the active id:")
	fmt.Fprintf(w, "# MASTER_KEYS=\"%s:%s,new-key:base64-encoded-key\"\n", keyID, encodedKey)
	fmt.Fprintln(w, "# ACTIVE_MASTER_KEY_ID=\"new-key\"")

	cryptoDomain.Zero(masterKey)

	return nil
}
