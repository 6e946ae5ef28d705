package astfmt

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/crabstar-lang/crabstar/core/ast"
)

// canonicalVersion is bumped whenever the encoding of records changes, so
// digests from different encodings never collide.
const canonicalVersion = 1

type canonicalForm struct {
	Version      uint8    `cbor:"1,keyasint"`
	Declarations []Record `cbor:"2,keyasint"`
}

// MarshalCanonical produces a deterministic CBOR encoding of decls. Only tree
// structure is encoded, so sources differing in layout encode identically.
func MarshalCanonical(decls []*ast.Let) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	data, err := encMode.Marshal(canonicalForm{
		Version:      canonicalVersion,
		Declarations: FromDeclarations(decls),
	})
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalCanonical decodes the output of MarshalCanonical.
func UnmarshalCanonical(data []byte) ([]*ast.Let, error) {
	var form canonicalForm
	if err := cbor.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("CBOR decoding failed: %w", err)
	}
	if form.Version != canonicalVersion {
		return nil, fmt.Errorf("unsupported canonical version %d", form.Version)
	}
	return ToDeclarations(form.Declarations)
}

// Digest computes the BLAKE2b-256 hash of the canonical encoding.
// Returns hex-encoded hash: "blake2b:a3f8b2c1d4e5f6a7..."
func Digest(decls []*ast.Let) (string, error) {
	data, err := MarshalCanonical(decls)
	if err != nil {
		return "", fmt.Errorf("failed to serialize declarations for digest: %w", err)
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create hasher: %w", err)
	}
	hasher.Write(data)
	return fmt.Sprintf("blake2b:%x", hasher.Sum(nil)), nil
}
