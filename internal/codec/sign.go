package codec

import (
	"crypto/ed25519"
	"crypto/sha256"
)

const txAuthDomain = "drawchain/tx/v1"

// TxSignBytes builds the message signed by a tx signer:
//
//	DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
func TxSignBytes(typ string, value []byte, nonce, signer string) []byte {
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(txAuthDomain)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, []byte(txAuthDomain)...)
	out = append(out, 0)
	out = append(out, []byte(typ)...)
	out = append(out, 0)
	out = append(out, []byte(nonce)...)
	out = append(out, 0)
	out = append(out, []byte(signer)...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

// SignEnvelope fills Sig over the envelope's current fields.
func SignEnvelope(env *TxEnvelope, priv ed25519.PrivateKey) {
	env.Sig = ed25519.Sign(priv, TxSignBytes(env.Type, env.Value, env.Nonce, env.Signer))
}
