package push

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"path/filepath"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// VAPIDKeys is the server's Web Push identity key pair. The public key is
// handed to clients at subscribe time; the private key signs every delivery.
type VAPIDKeys struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// LoadOrGenerateVAPIDKeys loads the VAPID key pair from <dataPath>/vapid.json,
// generating and persisting a fresh pair on first boot. Rotating the pair
// invalidates every subscription clients created against the old public key,
// so the file must survive restarts.
func LoadOrGenerateVAPIDKeys(dataPath string) (*VAPIDKeys, error) {
	keyPath := filepath.Join(dataPath, "vapid.json")

	if data, err := os.ReadFile(keyPath); err == nil {
		var keys VAPIDKeys
		if err := json.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("parse vapid key file: %w", err)
		}
		if keys.PublicKey == "" || keys.PrivateKey == "" {
			return nil, fmt.Errorf("vapid key file %s is incomplete", keyPath)
		}
		return &keys, nil
	}

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return nil, fmt.Errorf("generate vapid keys: %w", err)
	}
	keys := &VAPIDKeys{PublicKey: publicKey, PrivateKey: privateKey}

	data, err := json.Marshal(keys)
	if err != nil {
		return nil, fmt.Errorf("encode vapid keys: %w", err)
	}
	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("save vapid keys: %w", err)
	}

	return keys, nil
}
