package crypto

import (
	"encoding/hex"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// KeyPair holds a freshly generated secp256k1 key pair
type KeyPair struct {
	PrivateKeyHex string
	PublicAddress string
}

// GenerateKeyPair generates a secp256k1 key pair and derives the
// checksummed public address from it
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		PrivateKeyHex: hex.EncodeToString(ethcrypto.FromECDSA(priv)),
		PublicAddress: ethcrypto.PubkeyToAddress(priv.PublicKey).Hex(),
	}, nil
}

// AddressFromPrivateKey re-derives the public address from a hex-encoded
// private key. Used to sanity check decrypted key material.
func AddressFromPrivateKey(privateKeyHex string) (string, error) {
	priv, err := ethcrypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return "", err
	}
	return ethcrypto.PubkeyToAddress(priv.PublicKey).Hex(), nil
}
