package common

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestGenerateRandByteArray_LengthAndEntropy(t *testing.T) {
	a := GenerateRandByteArray(MinSaltLength)
	b := GenerateRandByteArray(MinSaltLength)

	if len(a) != MinSaltLength || len(b) != MinSaltLength {
		t.Fatalf("unexpected lengths: %d, %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Logf("warning: two GenerateRandByteArray(%d) results are identical; extremely unlikely", MinSaltLength)
	}
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("hunter2")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestSentinels_IntegrityIsNotNotFound(t *testing.T) {
	err := fmt.Errorf("artefact 7: %w", ErrorIntegrityViolation)
	if !errors.Is(err, ErrorIntegrityViolation) {
		t.Fatalf("wrapped error must match ErrorIntegrityViolation")
	}
	if errors.Is(err, ErrorNotFound) {
		t.Fatalf("integrity violation must not match ErrorNotFound")
	}
}
