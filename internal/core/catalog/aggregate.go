// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"sort"
	"time"
)

// # Aggregate Derivation

// Aggregate holds the manga fields derived from its chapters.
type Aggregate struct {
	ChapterCount          int
	LatestChapterID       *string
	LastChapterUpdated    *time.Time
	Languages             []string
	FirstChapterPublished *time.Time
}

/*
DeriveAggregate computes the chapter-derived manga fields from a full scan of
its chapters.

Description: The latest chapter is the one with the highest number,
independent of creation order. Languages is the sorted union of every
variant code. FirstChapterPublished is the earliest chapter creation time
and is only applied to a manga that has never had one.

Parameters:
  - chapters: []ChapterSummary (Every chapter of one manga)

Returns:
  - Aggregate: The derived values (zero values when there are no chapters)
*/
func DeriveAggregate(chapters []ChapterSummary) Aggregate {
	aggregate := Aggregate{
		ChapterCount: len(chapters),
		Languages:    []string{},
	}

	if len(chapters) == 0 {
		return aggregate
	}

	seen := make(map[string]struct{})
	latest := chapters[0]
	earliest := chapters[0].CreatedAt

	for _, chapter := range chapters {
		if chapter.Number > latest.Number {
			latest = chapter
		}
		if chapter.CreatedAt.Before(earliest) {
			earliest = chapter.CreatedAt
		}
		for _, lang := range chapter.Languages {
			if _, ok := seen[lang]; ok {
				continue
			}
			seen[lang] = struct{}{}
			aggregate.Languages = append(aggregate.Languages, lang)
		}
	}

	sort.Strings(aggregate.Languages)

	latestID := latest.ID
	updated := latest.CreatedAt
	aggregate.LatestChapterID = &latestID
	aggregate.LastChapterUpdated = &updated
	aggregate.FirstChapterPublished = &earliest

	return aggregate
}

// RatingSummary holds the manga fields derived from its ratings.
type RatingSummary struct {
	Average float64
	Count   int
}

// DeriveRatingSummary returns the arithmetic mean of scores, or zero for none.
func DeriveRatingSummary(scores []int) RatingSummary {
	if len(scores) == 0 {
		return RatingSummary{}
	}

	total := 0
	for _, score := range scores {
		total += score
	}

	return RatingSummary{
		Average: float64(total) / float64(len(scores)),
		Count:   len(scores),
	}
}
