package common

import (
	"crypto/ed25519"
	"strings"
	"testing"
)

func TestAddressDeriveAndValidate(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey error = %v", err)
	}

	addr := AddressFromPubKey(pub)
	if !strings.HasPrefix(addr, AddressPrefix) {
		t.Fatalf("address %q missing prefix", addr)
	}
	if err := ValidateAddress(addr); err != nil {
		t.Errorf("derived address should validate, got %v", err)
	}
}

func TestValidateAddressRejects(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey error = %v", err)
	}
	good := AddressFromPubKey(pub)

	cases := []string{
		"",
		"oct",
		"eth" + good[3:],                     // wrong prefix
		"oct0OIl",                            // not base58
		AddressPrefix + EncodeBytesToBase58([]byte{1, 2, 3}), // short digest
	}
	for _, addr := range cases {
		if err := ValidateAddress(addr); err == nil {
			t.Errorf("ValidateAddress(%q) should fail", addr)
		}
	}
}
