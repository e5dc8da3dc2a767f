package mysql

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// isDuplicateError detects unique key violations across drivers
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || // MySQL 1062
		strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value") // PostgreSQL 23505
}

// isForeignKeyError detects foreign key violations across drivers
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "a foreign key constraint fails") ||
		strings.Contains(msg, "violates foreign key constraint")
}

// likeEscape is the ESCAPE character used by containsPattern
const likeEscape = "!"

// titleContains is the case-insensitive title filter. Both sides go
// through the database's LOWER so they fold the same way.
const titleContains = "LOWER(%s) LIKE LOWER(?) ESCAPE '" + likeEscape + "'"

// containsPattern builds a LIKE pattern matching s anywhere, with the
// wildcard characters in s taken literally
func containsPattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(s) + "%"
}

// storageDate moves a calendar date to local midnight, the zone drivers
// use when encoding DATE columns
func storageDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// calendarDate reads a DATE column back as UTC midnight of the same day
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
