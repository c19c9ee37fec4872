package atpmk256

import (
	"encoding/json"
	"fmt"

	atpm "github.com/hiddentag/atpm"
	"github.com/hiddentag/atpm/tokenid"
)

type publicKeyWire struct {
	Point []byte `json:"point"`
}

func (k PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicKeyWire{Point: k.point.Bytes()})
}

func (k *PublicKey) UnmarshalJSON(data []byte) error {
	var w publicKeyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	p, err := grp.DecodeElement(w.Point)
	if err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	k.point = p
	return nil
}

type privateKeyWire struct {
	Scalar []byte `json:"scalar"`
}

func (k PrivateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(privateKeyWire{Scalar: k.scalar.Bytes()})
}

func (k *PrivateKey) UnmarshalJSON(data []byte) error {
	var w privateKeyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	s, err := grp.DecodeScalar(w.Scalar)
	if err != nil {
		return fmt.Errorf("%w: %v", atpm.ErrEncodingFailure, err)
	}
	k.scalar = s
	return nil
}

type signedTokenWire struct {
	Tag      [16]byte `json:"tag"`
	Metadata []byte   `json:"metadata"`
	Point    []byte   `json:"point"`
}

// MarshalJSON encodes a SignedToken for presentation to a verifier. Hidden
// metadata, if any, is never part of this wire format — only the tag that
// already folds its effect in is exposed.
func (s SignedToken) MarshalJSON() ([]byte, error) {
	tag := s.id.Tag()
	return json.Marshal(signedTokenWire{Tag: tag, Metadata: s.metadata, Point: s.point.Bytes()})
}

func signedTokenFromWire(w signedTokenWire) (SignedToken, error) {
	point, err := grp.DecodeElement(w.Point)
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
