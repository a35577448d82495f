// Package secrets stores the connection password in the operating system
// keyring so it never lands in the config file.
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// serviceName namespaces vendra's entries in the system keyring.
const serviceName = "vendra"

// ErrNotFound indicates that no password is stored for the account.
var ErrNotFound = errors.New("no stored password")

// accountKey builds the keyring key for a server/user pair, so presets for
// different servers do not clobber each other.
func accountKey(serverURL, username string) string {
	return fmt.Sprintf("%s|%s", serverURL, username)
}

// SetPassword stores the password for the given account.
func SetPassword(serverURL, username, password string) error {
	if err := keyring.Set(serviceName, accountKey(serverURL, username), password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}

// GetPassword retrieves the stored password for the given account.
func GetPassword(serverURL, username string) (string, error) {
	secret, err := keyring.Get(serviceName, accountKey(serverURL, username))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return secret, nil
}

// DeletePassword removes the stored password for the given account. Deleting
// an absent entry is not an error.
func DeletePassword(serverURL, username string) error {
	err := keyring.Delete(serviceName, accountKey(serverURL, username))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}
