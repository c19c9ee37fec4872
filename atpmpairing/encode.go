package atpmpairing

import (
	"encoding/json"
	"fmt"

	atpm "github.com/hiddentag/atpm"
	"github.com/hiddentag/atpm/group/pairing"
	"github.com/hiddentag/atpm/tokenid"
)

// publicKeyWire's "key" field name matches
// original_source/src/atpm_pairing/keys.rs's PublicKey struct field.
type publicKeyWire struct {
	Key []byte `json:"key"`
}

func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicKeyWire{Key: k.point.Bytes()})
}

func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var w publicKeyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	p, err := pairing.DecodeG2(w.Key)
	if err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	k.point = p
	return nil
}

// randomizedUnsignedTokenWire lets the client send its blinded point to
// an issuer over the wire (original_source/examples/server.rs's sign
// endpoint takes exactly this payload).
type randomizedUnsignedTokenWire struct {
	Point    []byte `json:"point"`
	Metadata []byte `json:"metadata"`
}

func (ru RandomizedUnsignedToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(randomizedUnsignedTokenWire{Point: ru.point.Bytes(), Metadata: ru.metadata})
}

func (ru *RandomizedUnsignedToken) UnmarshalJSON(data []byte) error {
	var w randomizedUnsignedTokenWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	p, err := pairing.DecodeG1(w.Point)
	if err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	ru.point = p
	ru.metadata = w.Metadata
	return nil
}

// randomizedSignedTokenWire is the issuer's reply to a sign request.
type randomizedSignedTokenWire struct {
	Point []byte `json:"point"`
}

func (rs RandomizedSignedToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(randomizedSignedTokenWire{Point: rs.point.Bytes()})
}

func (rs *RandomizedSignedToken) UnmarshalJSON(data []byte) error {
	var w randomizedSignedTokenWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	p, err := pairing.DecodeG1(w.Point)
	if err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	rs.point = p
	return nil
}

// signedTokenWire's "signature" field name matches
// original_source/src/atpm_pairing/tokens.rs's PairingSignedToken struct
// field.
type signedTokenWire struct {
	Tag       [16]byte `json:"tag"`
	Metadata  []byte   `json:"metadata"`
	Signature []byte   `json:"signature"`
}

// MarshalJSON encodes a SignedToken for presentation to a verifier.
func (s SignedToken) MarshalJSON() ([]byte, error) {
	tag := s.id.Tag()
	return json.Marshal(signedTokenWire{Tag: tag, Metadata: s.metadata, Signature: s.point.Bytes()})
}

func signedTokenFromWire(w signedTokenWire) (SignedToken, error) {
	point, err := pairing.DecodeG1(w.Signature)
	if err != nil {
		return SignedToken{}, fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	return SignedToken{id: tokenid.FromTag(w.Tag), metadata: w.Metadata, point: point}, nil
}

// UnmarshalJSON decodes a presented token. The resulting SignedToken's
// identifier carries only the already-folded tag — presentation is
// verify-only, never re-randomizable.
func (s *SignedToken) UnmarshalJSON(data []byte) error {
	var w signedTokenWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	parsed, err := signedTokenFromWire(w)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
