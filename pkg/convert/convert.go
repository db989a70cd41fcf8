// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package convert parses optional query flags leniently.
//
// Use it only where a malformed value may safely be treated as the zero value.
package convert

import "strconv"

// ToBool parses "true", "1", "false" or "0". Empty or malformed input is false.
func ToBool(s string) bool {
	if s == "" {
		return false
	}

	v, _ := strconv.ParseBool(s)
	return v
}
