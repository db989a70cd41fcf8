// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns manga titles into ASCII URL slugs, for example
// "Kimetsu no Yaiba: Mugen Ressha-hen" -> "kimetsu-no-yaiba-mugen-ressha-hen".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps a slug. Longer titles are cut at the last hyphen that fits.
const MaxLength = 80

// stripMarks decomposes accented letters and drops the combining marks,
// so "Pokémon" becomes "Pokemon".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From returns the slug of s. Titles without any ASCII letter or digit
// (for example pure kana) yield "".
func From(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var builder strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return truncate(builder.String())
}

func truncate(slug string) string {
	if len(slug) <= MaxLength {
		return slug
	}

	cut := slug[:MaxLength]
	if index := strings.LastIndexByte(cut, '-'); index > 0 {
		cut = cut[:index]
	}
	return cut
}
