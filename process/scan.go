package process

import "bytes"

// FindFirst scans the target's address space in ascending order and returns
// the address of the first match. ok is false when the pattern was not found
// before the walk exhausted the address space; that covers query failures and
// dead processes too, which are normal outcomes, not errors.
//
// Only committed, write-capable, non-guarded regions are searched. Regions
// are read in ScanChunkSize chunks and matches that straddle a chunk boundary
// are missed.
func FindFirst(insp Inspector, aob AOB) (ProcessMemoryAddress, bool) {
	matches := scan(insp, aob, true)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0], true
}

// FindAll returns every match in ascending address order. Same eligibility
// and chunking rules as FindFirst.
func FindAll(insp Inspector, aob AOB) []ProcessMemoryAddress {
	return scan(insp, aob, false)
}

func scan(insp Inspector, aob AOB, firstOnly bool) []ProcessMemoryAddress {
	if len(aob.Pattern) == 0 || !aob.IsValid() {
		return nil
	}
	if !insp.Alive() {
		return nil
	}

	var results []ProcessMemoryAddress

	cursor := MinValidAddress
	for cursor < ScanLimit {
		region, ok := insp.QueryRegion(cursor)
		if !ok {
			break
		}

		// Some systems report a null base for the region at the scan
		// origin. Substitute the cursor so the walk keeps moving forward.
		base := region.Base
		if base == 0 {
			base = cursor
		}
		if region.Size == 0 {
			break
		}
		next := base + ProcessMemoryAddress(region.Size)
		if next <= cursor {
			break
		}

		if region.IsCommitted() && region.IsWritable() && !region.IsGuarded() {
			hits := searchRegion(insp, base, region.Size, aob, firstOnly)
			results = append(results, hits...)
			if firstOnly && len(results) > 0 {
				return results
			}
		}

		cursor = next
	}

	return results
}

func searchRegion(insp Inspector, base ProcessMemoryAddress, size ProcessMemorySize, aob AOB, firstOnly bool) []ProcessMemoryAddress {
	var results []ProcessMemoryAddress

	for offset := ProcessMemorySize(0); offset < size; offset += ScanChunkSize {
		chunk := size - offset
		if chunk > ScanChunkSize {
			chunk = ScanChunkSize
		}

		data, err := insp.ReadMemory(base+ProcessMemoryAddress(offset), chunk)
		if err != nil {
			// The region can shrink or vanish under us; skip the chunk.
			continue
		}

		for _, hit := range findPatternMatches(data, aob.Pattern, aob.Mask) {
			results = append(results, base+ProcessMemoryAddress(offset)+ProcessMemoryAddress(hit))
			if firstOnly {
				return results
			}
		}
	}

	return results
}

// findPatternMatches finds all occurrences of the pattern in the data and
// returns their offsets. A mask byte of 0 is a wildcard; an empty mask means
// exact match.
func findPatternMatches(data, pattern, mask []byte) []uint {
	if len(data) < len(pattern) {
		return nil
	}

	if len(mask) == 0 {
		return findExactMatches(data, pattern)
	}

	var matches []uint

	for i := 0; i <= len(data)-len(pattern); i++ {
		matched := true

		for j := 0; j < len(pattern); j++ {
			if mask[j] == 0 {
				continue
			}

			if data[i+j]&mask[j] != pattern[j]&mask[j] {
				matched = false
				break
			}
		}

		if matched {
			matches = append(matches, uint(i))
		}
	}

	return matches
}

func findExactMatches(data, pattern []byte) []uint {
	var matches []uint

	start := 0
	for {
		idx := bytes.Index(data[start:], pattern)
		if idx < 0 {
			return matches
		}
		matches = append(matches, uint(start+idx))
		start += idx + 1
	}
}
