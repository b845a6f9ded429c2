package tx

import (
	"testing"

	"github.com/rbelusko/fiitcoin/pkg/crypto"
)

// participant is a convenience test fixture pairing a signing key with its
// verifying key, mirroring original_source's tests/common Participant
// helper.
type participant struct {
	sk *crypto.SigningKey
	vk *crypto.VerifyingKey
}

func newParticipant(t *testing.T) participant {
	t.Helper()
	sk, vk, err := crypto.GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	return participant{sk: sk, vk: vk}
}

func newParticipants(t *testing.T, n int) []participant {
	t.Helper()
	out := make([]participant, n)
	for i := range out {
		out[i] = newParticipant(t)
	}
	return out
}
