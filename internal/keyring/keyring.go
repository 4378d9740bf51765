package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "ledgerfile"

// SavePassword stores a password in the OS keyring
func SavePassword(ledgerID string, password string) error {
	return keyring.Set(serviceName, ledgerID, password)
}

// GetPassword retrieves a password from the OS keyring
func GetPassword(ledgerID string) (string, error) {
	return keyring.Get(serviceName, ledgerID)
}

// DeletePassword removes a password from the OS keyring
func DeletePassword(ledgerID string) error {
	return keyring.Delete(serviceName, ledgerID)
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(ledgerID string) bool {
	_, err := keyring.Get(serviceName, ledgerID)
	return err == nil
}
