package orchestrator

import (
	"math"
	"sort"

	"github.com/physio-dash/session-transcriber/diarize"
)

// speakerStats reports per-speaker turns and talk time in order of first
// appearance.
func speakerStats(utts []diarize.Utterance) []SpeakerStats {
	if len(utts) == 0 {
		return nil
	}
	idx := map[string]int{}
	var out []SpeakerStats
	total := 0.0
	for _, u := range utts {
		i, ok := idx[u.SpeakerLabel]
		if !ok {
			i = len(out)
			idx[u.SpeakerLabel] = i
			out = append(out, SpeakerStats{Speaker: u.SpeakerLabel})
		}
		d := u.Duration()
		out[i].Turns++
		out[i].TalkTime += d
		total += d
	}
	if total > 0 {
		for i := range out {
			out[i].Share = out[i].TalkTime / total
		}
	}
	return out
}

// overlapRate is the fraction of the session span where two or more
// utterances are active at once.
func overlapRate(utts []diarize.Utterance) float64 {
	if len(utts) == 0 {
		return 0
	}
	type edge struct {
		t     float64
		delta int
	}
	start, end := math.Inf(1), math.Inf(-1)
	var edges []edge
	for _, u := range utts {
		if u.End < u.Start {
			continue
		}
		start = math.Min(start, u.Start)
		end = math.Max(end, u.End)
		edges = append(edges, edge{t: u.Start, delta: +1}, edge{t: u.End, delta: -1})
	}
	if len(edges) == 0 || end <= start {
		return 0
	}
	// closing edges first so back-to-back turns don't count as overlap
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].t == edges[j].t {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].t < edges[j].t
	})
	active := 0
	last := edges[0].t
	overlap := 0.0
	for _, e := range edges {
		if active > 1 {
			overlap += e.t - last
		}
		active += e.delta
		last = e.t
	}
	return overlap / (end - start)
}
