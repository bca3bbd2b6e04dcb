package entity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ThresholdSuffix is appended to a label name to form its threshold setting key
const ThresholdSuffix = "_threshold"

// Setting is a named, administrator-editable value
type Setting struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(32);uniqueIndex;not null"`
	Description *string   `json:"description,omitempty" gorm:"type:varchar(256)"`
	Value       string    `json:"value" gorm:"type:varchar(256);not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// IsThreshold returns true if the setting holds a label threshold
func (s *Setting) IsThreshold() bool {
	return IsThresholdKey(s.Name)
}

// IsThresholdKey returns true if name is a threshold setting key
func IsThresholdKey(name string) bool {
	return strings.HasSuffix(name, ThresholdSuffix) && len(name) > len(ThresholdSuffix)
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseThreshold parses a plain decimal threshold and checks it lies in [0,1].
// Exponents, hex floats, NaN and Inf are rejected.
func ParseThreshold(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if !decimalPattern.MatchString(trimmed) {
		return 0, fmt.Errorf("threshold %q is not a decimal", value)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("threshold %q is not a decimal: %w", value, err)
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("threshold %q is outside [0,1]", value)
	}
	return v, nil
}
