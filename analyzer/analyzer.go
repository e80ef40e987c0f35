// Package analyzer implements the post-game statistics summary named by
// spec.md component K: a per-grade histogram, accuracy percentage,
// longest combo, and a textual report, built from the cumulative
// counters the original's realtime_analysis.py keeps across a session.
package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kaikogame/kaiko/beatmap"
)

// Stats accumulates judgement outcomes across a played beatmap.
type Stats struct {
	counts     map[string]int
	score      int
	fullScore  int
	combo      int
	maxCombo   int
	subjects   int
	graded     int
}

func New() *Stats {
	return &Stats{counts: make(map[string]int)}
}

// Record folds one judged performance into the running totals. A MISS
// or a wrong-key hit breaks the combo; anything else extends it.
func (s *Stats) Record(perf beatmap.Performance, score, fullScore int) {
	s.graded++
	s.counts[perf.Grade.String()]++
	s.score += score
	s.fullScore += fullScore

	if perf.IsMiss() || perf.IsWrong() {
		s.combo = 0
	} else {
		s.combo++
		if s.combo > s.maxCombo {
			s.maxCombo = s.combo
		}
	}
}

// RecordBeatmap walks every scored event in a finished beatmap, summing
// score/full_score over every finished one and folding grade counts and combo
// over the subset that settles on a discrete grade (Soft/Loud/Incr;
// Roll and Spin score continuously and carry no single grade).
func (s *Stats) RecordBeatmap(bm *beatmap.Beatmap) {
	for _, e := range bm.Events {
		se, ok := e.(beatmap.ScoredEvent)
		if !ok {
			continue
		}
		s.subjects++
		if !se.IsFinished() {
			continue
		}
		s.score += se.Score()
		s.fullScore += se.FullScore()

		g, ok := e.(beatmap.Graded)
		if !ok {
			continue
		}
		s.graded++
		grade := g.Grade()
		s.counts[grade.String()]++
		if grade.IsMiss() || grade.IsWrong() {
			s.combo = 0
		} else {
			s.combo++
			if s.combo > s.maxCombo {
				s.maxCombo = s.combo
			}
		}
	}
}

// Accuracy is the fraction of full score actually earned, in [0, 1].
func (s *Stats) Accuracy() float64 {
	if s.fullScore == 0 {
		return 0
	}
	return float64(s.score) / float64(s.fullScore)
}

// MaxCombo is the longest run of non-miss, correct-key hits seen.
func (s *Stats) MaxCombo() int { return s.maxCombo }

// Count returns how many times a grade name (e.g. "PERFECT",
// "LATE_GOOD_WRONG", "MISS") was recorded.
func (s *Stats) Count(grade string) int { return s.counts[grade] }

// Histogram returns grade name -> count for every grade seen, sorted by
// count descending then name, for stable textual reports.
func (s *Stats) Histogram() []struct {
	Grade string
	Count int
} {
	out := make([]struct {
		Grade string
		Count int
	}, 0, len(s.counts))
	for g, c := range s.counts {
		out = append(out, struct {
			Grade string
			Count int
		}{g, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Grade < out[j].Grade
	})
	return out
}

// Summary renders a one-screen textual report of the session.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "score: %d/%d (%.1f%%)\n", s.score, s.fullScore, s.Accuracy()*100)
	fmt.Fprintf(&b, "max combo: %d\n", s.maxCombo)
	for _, h := range s.Histogram() {
		fmt.Fprintf(&b, "  %-20s %d\n", h.Grade, h.Count)
	}
	return b.String()
}
