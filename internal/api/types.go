package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt handles JSON numbers that may come as strings or integers
type FlexInt int

func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// Try as int first
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}
	// Whole numbers written as 5.0
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		if f != float64(int(f)) {
			return fmt.Errorf("cannot unmarshal %s into FlexInt: not a whole number", data)
		}
		*fi = FlexInt(int(f))
		return nil
	}
	// Status flags sometimes arrive as booleans
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*fi = 1
		} else {
			*fi = 0
		}
		return nil
	}
	// Try as string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*fi = 0
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			// Some endpoints render whole numbers as "12.0".
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil || f != float64(int(f)) {
				return err
			}
			i = int(f)
		}
		*fi = FlexInt(i)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexInt", data)
}

// Int returns the value as a plain int.
func (fi FlexInt) Int() int {
	return int(fi)
}

// FlexFloat handles JSON numbers that may come as strings or numbers
type FlexFloat float64

func (ff *FlexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// Try as float first
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*ff = FlexFloat(f)
		return nil
	}
	// Try as string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*ff = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*ff = FlexFloat(f)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexFloat", data)
}

// Float returns the value as a plain float64.
func (ff FlexFloat) Float() float64 {
	return float64(ff)
}

// FlexString handles JSON values that may come as strings or numbers
// and stores them as strings
type FlexString string

func (fs *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// Try as string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*fs = FlexString(s)
		return nil
	}
	// Try as float64 (JSON numbers are float64)
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		// Format as integer if it's a whole number
		if f == float64(int64(f)) {
			*fs = FlexString(strconv.FormatInt(int64(f), 10))
		} else {
			*fs = FlexString(strconv.FormatFloat(f, 'f', -1, 64))
		}
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexString", data)
}

// String returns the string value
func (fs FlexString) String() string {
	return string(fs)
}

// Record status values used by products, categories, taxes and delivery charges.
const (
	StatusInactive = 0
	StatusActive   = 1
)

func statusLabel(v FlexInt) string {
	if v == StatusActive {
		return "active"
	}
	return "inactive"
}

// ParseStatus accepts "active"/"inactive" or "1"/"0".
func ParseStatus(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "1", "enabled":
		return StatusActive, nil
	case "inactive", "0", "disabled":
		return StatusInactive, nil
	default:
		return 0, NewValidationError("status", s, []string{"active", "inactive"})
	}
}
