package probe

import (
	"errors"
	"strconv"

	"verdict/internal/dataset"
	"verdict/internal/ingest"
)

// InferType returns the narrowest type every non-empty value parses as under
// ingestion's cell rules. Integers win over booleans, so a 0/1 column is Int.
// A column with no non-empty values is Str.
func InferType(values []string) dataset.DataType {
	seen := false
	isInt, isBool, isFloat := true, true, true
	for _, v := range values {
		if v == "" {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isBool {
			if _, ok := ingest.ParseBool(v); !ok {
				isBool = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
				isFloat = false
			}
		}
		if !isInt && !isBool && !isFloat {
			return dataset.Str
		}
	}
	switch {
	case !seen:
		return dataset.Str
	case isInt:
		return dataset.Int
	case isBool:
		return dataset.Bool
	case isFloat:
		return dataset.Float
	}
	return dataset.Str
}
