// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters such as
// "?genres=action,romance" or "?include=chapters,related".
package query

import "strings"

// StringSlice splits a comma-separated value into trimmed, non-empty parts.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}

	var res []string
	for _, v := range strings.Split(val, ",") {
		if clean := strings.TrimSpace(v); clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Enum splits a comma-separated value into a typed enum slice.
// Values are not validated; the domain layer rejects unknown members.
func Enum[T ~string](val string) []T {
	parts := StringSlice(val)
	if parts == nil {
		return nil
	}

	res := make([]T, len(parts))
	for i, part := range parts {
		res[i] = T(part)
	}
	return res
}
