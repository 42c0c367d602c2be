// Package pagination implements the keyset cursors used by the ledger and
// catalog listings. Pages are ordered created_at DESC with the row id as a
// tiebreak, so a cursor pins both values of the last row served.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is sized for the move-history feeds on the dashboard.
	DefaultLimit = 20
	// MaxLimit caps a single page; deeper reads walk the cursor instead.
	MaxLimit = 100
)

// Params carries the raw limit/cursor pair from a list query string.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor pins the position of the last row served: its creation time plus
// the id tiebreak for rows created in the same instant.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit], falling
// back to DefaultLimit when the request carries none.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer is the normalized limit plus one sentinel row; fetching it
// tells the repository whether another page exists without a COUNT.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor packs the cursor into an opaque token safe for query strings.
func EncodeCursor(cursor Cursor) string {
	payload := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor unpacks a token produced by EncodeCursor. A blank token means
// first page and yields a nil cursor without error.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	createdAtPart, idPart, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil, fmt.Errorf("malformed cursor")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtPart)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}
