package renderer

// longestIncreasingSubsequence returns the indices of a longest strictly
// increasing subsequence of arr, ignoring zero entries. Zero marks a new
// node with no old position.
//
// It runs in O(n log n): result holds, for each length, the index of the
// smallest tail seen so far, and prev links each index to its predecessor
// for the final walk back.
func longestIncreasingSubsequence(arr []int) []int {
	prev := make([]int, len(arr))
	result := make([]int, 0, len(arr))

	for i, v := range arr {
		if v == 0 {
			continue
		}
		if n := len(result); n == 0 || arr[result[n-1]] < v {
			if n > 0 {
				prev[i] = result[n-1]
			}
			result = append(result, i)
			continue
		}

		// Smallest u with arr[result[u]] >= v.
		u, w := 0, len(result)-1
		for u < w {
			c := (u + w) / 2
			if arr[result[c]] < v {
				u = c + 1
			} else {
				w = c
			}
		}
		if v < arr[result[u]] {
			if u > 0 {
				prev[i] = result[u-1]
			}
			result[u] = i
		}
	}

	if len(result) == 0 {
		return result
	}
	v := result[len(result)-1]
	for k := len(result) - 1; k >= 0; k-- {
		result[k] = v
		v = prev[v]
	}
	return result
}
