package main

import (
	"strconv"
	"strings"

	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/errors"
)

// parseFilters turns col=a,b flags into allowed-value sets. Repeating a
// column merges its values; col= with no values is a pass-through.
func parseFilters(flags []string) (map[string][]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(flags))
	for _, f := range flags {
		col, values, ok := strings.Cut(f, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, errors.InvalidInput("filter must look like col=a,b: " + f)
		}
		allowed := out[col]
		if allowed == nil {
			allowed = []string{}
		}
		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				allowed = append(allowed, v)
			}
		}
		out[col] = allowed
	}
	return out, nil
}

// parseRanges turns col=min:max flags into inclusive numeric ranges
func parseRanges(flags []string) (map[string]domainDataset.Range, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string]domainDataset.Range, len(flags))
	for _, f := range flags {
		col, bounds, ok := strings.Cut(f, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, errors.InvalidInput("range must look like col=min:max: " + f)
		}
		lo, hi, ok := strings.Cut(bounds, ":")
		if !ok {
			return nil, errors.InvalidInput("range must look like col=min:max: " + f)
		}
		lower, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return nil, errors.InvalidInput("range minimum is not a number: " + f)
		}
		upper, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return nil, errors.InvalidInput("range maximum is not a number: " + f)
		}
		out[col] = domainDataset.Range{Min: lower, Max: upper}
	}
	return out, nil
}
