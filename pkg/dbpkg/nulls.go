package dbpkg

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// NullString maps "" to NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// StringPtr returns nil for NULL.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}

	s := ns.String

	return &s
}

// TimePtr returns nil for NULL.
func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}

	t := nt.Time.UTC()

	return &t
}

// Int64Ptr returns nil for NULL.
func Int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}

	i := ni.Int64

	return &i
}

// BoolPtr returns nil for NULL.
func BoolPtr(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}

	b := nb.Bool

	return &b
}

// UTCPtr returns t in UTC, or nil.
func UTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	u := t.UTC()

	return &u
}

// DecimalFromText parses an amount stored as text. NULL and "" give an invalid decimal.
func DecimalFromText(ns sql.NullString) (decimal.NullDecimal, error) {
	if !ns.Valid || ns.String == "" {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NewNullDecimal(d), nil
}
