package herostore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
)

// Hero ids are 32-bit signed integers in every stored document.
const (
	MinHeroID = math.MinInt32
	MaxHeroID = math.MaxInt32
)

// Hero is the only entity the service stores.
type Hero struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// SameHero reports whether two heroes are the same for duplicate detection.
// Only the name takes part in the comparison; ids are ignored.
func SameHero(a, b Hero) bool {
	return a.Name == b.Name
}

// EncodeHero returns the persisted JSON form of h.
func EncodeHero(h Hero) ([]byte, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encode hero %d: %w: %w", h.ID, ErrSerialization, err)
	}
	return data, nil
}

// DecodeHero parses a persisted hero document.
func DecodeHero(data []byte) (Hero, error) {
	h, err := ReadHero(bytes.NewReader(data))
	if err != nil {
		return Hero{}, fmt.Errorf("decode hero: %w: %w", ErrSerialization, err)
	}
	return h, nil
}

// ReadHero decodes exactly one hero object from r.
// It rejects null, non-object values, unknown fields, trailing data and
// ids outside [MinHeroID, MaxHeroID].
func ReadHero(r io.Reader) (Hero, error) {
	var h *Hero
	if err := decodeStrict(r, &h); err != nil {
		return Hero{}, err
	}
	if h == nil {
		return Hero{}, errors.New("hero document is null")
	}
	if err := CheckHeroID(h.ID); err != nil {
		return Hero{}, err
	}
	return *h, nil
}

// ReadHeroes decodes a JSON array of hero objects from r with the same rules as ReadHero.
func ReadHeroes(r io.Reader) ([]Hero, error) {
	var list []*Hero
	if err := decodeStrict(r, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, errors.New("hero list is null")
	}

	heroes := make([]Hero, 0, len(list))
	for i, h := range list {
		if h == nil {
			return nil, fmt.Errorf("hero %d: hero document is null", i)
		}
		if err := CheckHeroID(h.ID); err != nil {
			return nil, fmt.Errorf("hero %d: %w", i, err)
		}
		heroes = append(heroes, *h)
	}
	return heroes, nil
}

// CheckHeroID reports an error when id does not fit a 32-bit signed integer.
func CheckHeroID(id int) error {
	if id < MinHeroID || id > MaxHeroID {
		return fmt.Errorf("id %d out of range [%d, %d]", id, MinHeroID, MaxHeroID)
	}
	return nil
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// BlobItem describes one blob in a container listing.
type BlobItem struct {
	Name string
	Size int64
}

type IDStrategy string

const (
	IDStrategyRandom IDStrategy = "random"
	IDStrategyUnique IDStrategy = "unique"
)

func (s IDStrategy) IsValid() bool {
	switch s {
	case IDStrategyRandom, IDStrategyUnique:
		return true
	default:
		return false
	}
}

func ParseIDStrategy(s string) (IDStrategy, error) {
	strategy := IDStrategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("invalid id strategy: %s (valid strategies: random, unique)", s)
	}
	return strategy, nil
}

// Tables holds configurable table names for SQL-backed blob containers.
// This allows several deployments to share one database.
type Tables struct {
	Blobs string `mapstructure:"blobs"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Blobs == "" {
		return errors.New("validate tables: blobs table name cannot be empty")
	}

	if !IsValidTableName(t.Blobs) {
		return fmt.Errorf("validate tables: invalid blobs table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Blobs)
	}

	return nil
}

// BulkResult reports the outcome of loading many heroes at once.
type BulkResult struct {
	Created []Hero        `json:"created"`
	Failed  []BulkFailure `json:"failed"`
}

// BulkFailure is one hero that could not be created during a bulk load.
type BulkFailure struct {
	Hero  Hero   `json:"hero"`
	Error string `json:"error"`
}
