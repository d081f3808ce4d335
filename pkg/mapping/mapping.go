package mapping

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

func ValueToSQLNullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func SQLNullStringToValue(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func PointerToSQLNullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

// TimeToSQLNullTime maps the zero time onto NULL.
func TimeToSQLNullTime(v time.Time) sql.NullTime {
	if v.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v, Valid: true}
}

func SQLNullTimeToPointer(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func UUIDToSQLNullString(v uuid.UUID) sql.NullString {
	if v == uuid.Nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}

func SQLNullStringToUUID(v sql.NullString) uuid.UUID {
	if !v.Valid {
		return uuid.Nil
	}
	id, err := uuid.Parse(v.String)
	if err != nil {
		return uuid.Nil
	}
	return id
}
