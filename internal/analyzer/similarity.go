package analyzer

import (
	"math"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"schema-normalizer/internal/attrset"
)

// suggestThreshold 低于该相似度不给出建议
const suggestThreshold = 0.5

// NameSimilarity 计算属性名相似度，范围 [0, 1]
func NameSimilarity(name1, name2 string) float64 {
	// 标准化命名
	n1 := normalizeName(name1)
	n2 := normalizeName(name2)

	if n1 == n2 {
		return 1.0
	}
	if n1 == "" || n2 == "" {
		return 0
	}

	// 包含关系
	if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
		return 0.8
	}

	r1, r2 := []rune(n1), []rune(n2)
	maxLen := math.Max(float64(len(r1)), float64(len(r2)))
	distance := levenshtein.DistanceForStrings(r1, r2, levenshtein.DefaultOptions)
	similarity := 1.0 - float64(distance)/maxLen
	if similarity < 0 {
		return 0
	}
	return similarity
}

func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(n)
}

// SuggestAttribute 在 universe 中找与 name 最接近的属性。
// 相同分数时取字典序最小者。
func SuggestAttribute(name string, universe attrset.Set) (string, bool) {
	best, bestScore := "", 0.0
	for _, attr := range universe.Sorted() {
		if score := NameSimilarity(name, attr); score > bestScore {
			best, bestScore = attr, score
		}
	}
	if bestScore < suggestThreshold {
		return "", false
	}
	return best, true
}
