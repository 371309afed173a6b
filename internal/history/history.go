package history

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/suykerbuyk/aiscope/internal/cachelog"
)

// Series is every record logged under one filename, oldest first.
type Series struct {
	Filename string
	Records  []cachelog.Record
}

// Collect groups records by filename. Series appear in the order their
// filename first occurs in recs; records within a series are sorted by
// timestamp, keeping log order for equal timestamps.
func Collect(recs []cachelog.Record) []Series {
	var out []Series
	pos := make(map[string]int)
	for _, r := range recs {
		i, ok := pos[r.Filename]
		if !ok {
			i = len(out)
			pos[r.Filename] = i
			out = append(out, Series{Filename: r.Filename})
		}
		out[i].Records = append(out[i].Records, r)
	}
	for i := range out {
		rs := out[i].Records
		sort.SliceStable(rs, func(a, b int) bool {
			return rs[a].Timestamp < rs[b].Timestamp
		})
	}
	return out
}

// Filter returns the series for filename, or all series when filename is "".
func Filter(series []Series, filename string) []Series {
	if filename == "" {
		return series
	}
	for _, s := range series {
		if s.Filename == filename {
			return []Series{s}
		}
	}
	return nil
}

// Latest returns the record with the greatest timestamp. The earliest
// logged record wins a tie. Latest panics on an empty series.
func (s Series) Latest() cachelog.Record {
	best := s.Records[0]
	for _, r := range s.Records[1:] {
		if r.Timestamp > best.Timestamp {
			best = r
		}
	}
	return best
}

// Stem returns the filename's base name without its final extension.
func Stem(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}
