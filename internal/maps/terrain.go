package maps

import "fmt"

// Kind is the terrain type of one grid cell.
type Kind uint8

const (
	KindGrass Kind = iota // default for new levels
	KindDirt
	KindWater
	KindIce
	KindWood
	kindCount // sentinel
)

// kindNames is indexed by Kind.
var kindNames = [kindCount]string{"grass", "dirt", "water", "ice", "wood"}

// Kinds returns every terrain kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the known terrain kinds.
func (k Kind) Valid() bool {
	return k < kindCount
}

// Blended reports whether cells of this kind are joined to same-kind
// neighbors through the blend table (dirt, water, ice).
func (k Kind) Blended() bool {
	return k == KindDirt || k == KindWater || k == KindIce
}

// ParseKind converts a terrain name as used in level files.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown terrain kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid terrain kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
