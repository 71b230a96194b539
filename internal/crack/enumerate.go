// Package crack implements the cracker orchestrator (C13) and random
// (brute-force) enumerator (C14) of spec.md §4.10-4.11, generalizing the
// teacher's internal/cracker generator/runner split from a single
// ZipCrypto-only job into one that dispatches through the verify
// package's format-agnostic Verifier interface.
package crack

import "math/big"

// Enumerator maps between a 0-based index and the password it denotes,
// for a fixed charset and length range [minLen, maxLen]. Passwords are
// produced in length-then-lexicographic order, each exactly once
// (spec P8).
type Enumerator struct {
	charset []rune
	minLen  int
	maxLen  int
}

func NewEnumerator(charset []rune, minLen, maxLen int) *Enumerator {
	return &Enumerator{charset: charset, minLen: minLen, maxLen: maxLen}
}

// totalUpTo returns total(L) = Σ_{k=0}^{L-1} B^k, the count of every
// string of length strictly less than L over the charset (the empty
// string counts as the k=0 term).
func totalUpTo(base *big.Int, length int) *big.Int {
	sum := big.NewInt(0)
	pow := big.NewInt(1)
	for k := 0; k < length; k++ {
		sum.Add(sum, pow)
		pow.Mul(pow, base)
	}
	return sum
}

// Bounds returns the half-open index interval [skip, skip+total) this
// enumerator's [minLen, maxLen] range occupies in the global ordering
// (spec §4.11).
func (e *Enumerator) Bounds() (skip *big.Int, count *big.Int) {
	base := big.NewInt(int64(len(e.charset)))
	skip = new(big.Int).Sub(totalUpTo(base, e.minLen), big.NewInt(1))
	nTotal := big.NewInt(0)
	for l := e.minLen; l <= e.maxLen; l++ {
		term := new(big.Int).Exp(base, big.NewInt(int64(l)), nil)
		nTotal.Add(nTotal, term)
	}
	return skip, nTotal
}

// IndexToPassword is the inverse of i = Σ_{k=0}^{len-1} (c_k+1)·B^k − 1
// (so charset[0] alone is index 0): it treats i as a base-B numeral
// shifted by one at each digit, per
// spec §4.11:
//
//	s := ""; while i >= 0 { s += charset[i mod B]; i = i/B - 1 }
//	reverse(s)
func (e *Enumerator) IndexToPassword(i *big.Int) string {
	base := big.NewInt(int64(len(e.charset)))
	one := big.NewInt(1)
	i = new(big.Int).Set(i)

	var runes []rune
	mod := new(big.Int)
	div := new(big.Int)
	for i.Sign() >= 0 {
		mod.Mod(i, base)
		runes = append(runes, e.charset[mod.Int64()])
		div.Div(i, base)
		i = div.Sub(div, one)
	}
	for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
		runes[l], runes[r] = runes[r], runes[l]
	}
	return string(runes)
}

// Range computes this enumerator's contiguous slice of the global index
// space (skip, skip+count) and splits it into at most numWorkers
// contiguous index ranges of ceil(count/numWorkers) indices each, the
// last one clamped to the end; fewer ranges result when count is small,
// per spec §4.10 step 4.
func (e *Enumerator) Range(numWorkers int) []IndexRange {
	skip, total := e.Bounds()
	end := new(big.Int).Add(skip, total)
	if numWorkers <= 0 {
		numWorkers = 1
	}
	perWorker := new(big.Int).Add(total, big.NewInt(int64(numWorkers-1)))
	perWorker.Div(perWorker, big.NewInt(int64(numWorkers)))

	var ranges []IndexRange
	cur := new(big.Int).Set(skip)
	for cur.Cmp(end) < 0 {
		next := new(big.Int).Add(cur, perWorker)
		if next.Cmp(end) > 0 {
			next = end
		}
		ranges = append(ranges, IndexRange{Start: new(big.Int).Set(cur), End: new(big.Int).Set(next)})
		cur = next
	}
	return ranges
}

// IndexRange is a half-open [Start, End) slice of the global brute-force
// index space assigned to one worker.
type IndexRange struct {
	Start *big.Int
	End   *big.Int
}
