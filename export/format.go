// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import "fmt"

// FormatDuration renders a nanosecond count at a human scale: whole
// nanoseconds below 1µs, otherwise two decimals of the next unit up.
//
//	FormatDuration(500)           // "500 ns"
//	FormatDuration(1_500)         // "1.50 µs"
//	FormatDuration(1_500_000)     // "1.50 ms"
//	FormatDuration(1_500_000_000) // "1.50 s"
func FormatDuration(ns uint64) string {
	switch {
	case ns < 1_000:
		return fmt.Sprintf("%d ns", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.2f µs", float64(ns)/1_000)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.2f ms", float64(ns)/1_000_000)
	default:
		return fmt.Sprintf("%.2f s", float64(ns)/1_000_000_000)
	}
}
