package service

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const nameSimilarityThreshold = 0.85

// nameStopWords are tokens removed before employer/institution names are
// compared: business-entity suffixes, nearby locations and generic industry
// terms that make unrelated names look alike.
var nameStopWords = map[string]struct{}{
	"pvt": {}, "private": {}, "ltd": {}, "limited": {}, "llp": {},
	"inc": {}, "corp": {}, "corporation": {}, "co": {}, "company": {},
	"technologies": {}, "technology": {}, "tech": {},
	"solutions": {}, "solution": {}, "systems": {}, "system": {},
	"services": {}, "service": {}, "software": {},
	"consultancy": {}, "consulting": {}, "infotech": {},
	"labs": {}, "lab": {}, "group": {}, "industries": {},
	"india": {}, "chennai": {}, "bangalore": {}, "bengaluru": {},
	"hyderabad": {}, "coimbatore": {}, "hosur": {},
	"university": {}, "college": {}, "institute": {}, "institution": {},
	"the": {}, "of": {}, "and": {},
}

// normalizeName lower-cases, strips punctuation and drops stop words,
// returning the residual tokens joined by single spaces.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var kept []string
	for _, tok := range strings.Fields(b.String()) {
		if _, stop := nameStopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// acronymOf builds the acronym of a multi-token normalized name. Names of a
// single token have no acronym.
func acronymOf(normalized string) string {
	tokens := strings.Fields(normalized)
	if len(tokens) < 2 {
		return ""
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteByte(tok[0])
	}
	return b.String()
}

func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// sameNameBucket reports whether two normalized names refer to the same
// employer/institution: exact match, substring containment, similarity
// ratio at or above the threshold, or one being the acronym of the other.
// The containment rule is known to over-merge short unrelated names; that
// behaviour is kept as observed in production data reviews.
func sameNameBucket(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	if similarityRatio(a, b) >= nameSimilarityThreshold {
		return true
	}
	if ac := acronymOf(a); ac != "" && ac == b {
		return true
	}
	if bc := acronymOf(b); bc != "" && bc == a {
		return true
	}
	return false
}

// MergeNameCounts buckets near-duplicate free-text names and returns the
// top-N buckets by count. Each bucket is labeled with the first raw variant
// seen for it.
func MergeNameCounts(names []string, topN int) []NameCount {
	type bucket struct {
		normalized string
		label      string
		count      int
		variants   []string
	}

	var buckets []*bucket
	for _, raw := range names {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		norm := normalizeName(trimmed)
		if norm == "" {
			continue
		}

		var target *bucket
		for _, b := range buckets {
			if sameNameBucket(b.normalized, norm) {
				target = b
				break
			}
		}
		if target == nil {
			target = &bucket{normalized: norm, label: trimmed}
			buckets = append(buckets, target)
		}
		target.count++

		seen := false
		for _, v := range target.variants {
			if v == trimmed {
				seen = true
				break
			}
		}
		if !seen {
			target.variants = append(target.variants, trimmed)
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].label < buckets[j].label
	})

	if topN > 0 && len(buckets) > topN {
		buckets = buckets[:topN]
	}

	out := make([]NameCount, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, NameCount{
			Name:     b.label,
			Count:    b.count,
			Variants: b.variants,
		})
	}
	return out
}
