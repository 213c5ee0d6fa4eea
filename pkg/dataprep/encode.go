// Package dataprep prepares tables for the models: categorical
// encoding, imputation of missing cells, dimensionality reduction, and
// chains of fitted transformations.
package dataprep

// OneHot encodes string categories as indicator vectors. Levels are
// numbered in order of first appearance and returned alongside the
// vectors so callers can label the resulting columns.
func OneHot(data []string) ([][]float64, []string) {
	index := map[string]int{}
	var levels []string
	for _, v := range data {
		if _, ok := index[v]; !ok {
			index[v] = len(levels)
			levels = append(levels, v)
		}
	}
	out := make([][]float64, len(data))
	for i, v := range data {
		vec := make([]float64, len(levels))
		vec[index[v]] = 1
		out[i] = vec
	}
	return out, levels
}

// FrequencyEncode replaces each category with its relative frequency.
func FrequencyEncode(data []string) ([]float64, map[string]float64) {
	counts := map[string]float64{}
	for _, v := range data {
		counts[v]++
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = counts[v] / float64(len(data))
	}
	return out, counts
}
