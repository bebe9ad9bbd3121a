package outline

// Refine corrects levels that are implausible next to both neighbours, in a
// single forward pass:
//
//   - an H1 between two H3s is demoted to H2 when its h2 score is at least minH2;
//   - an H3 between two H2s is promoted to H2 when its h2 score is at least its h3 score.
//
// Corrections apply in place as the pass moves forward, so the previous
// neighbour is seen with its corrected level; the pass never repeats. The
// input must already be in reading order and is not modified.
func Refine(headings []HeadingCandidate, minH2 int) []HeadingCandidate {
	out := make([]HeadingCandidate, len(headings))
	copy(out, headings)
	if len(headings) < 3 {
		return out
	}
	for i := 1; i < len(headings)-1; i++ {
		prev, cur, next := out[i-1].Level, out[i], out[i+1].Level
		switch {
		case cur.Level == H1 && prev == H3 && next == H3:
			if cur.Scores.H2 >= minH2 {
				out[i].Level = H2
			}
		case cur.Level == H3 && prev == H2 && next == H2:
			if cur.Scores.H2 >= cur.Scores.H3 {
				out[i].Level = H2
			}
		}
	}
	return out
}
