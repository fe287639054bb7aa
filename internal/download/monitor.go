// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"fmt"
	"io"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// Monitor drains the outcome channel, writing one status line per
// completed item and a final summary to w. Outcomes arrive in completion
// order, not rank order; the monitor treats them only as a progress count.
// It returns once the producer closes the channel, whether or not all
// total items were reported, so an abandoned batch cannot strand it.
func Monitor(outcomes <-chan types.DownloadOutcome, total int, w io.Writer) BatchResult {
	var result BatchResult
	done := 0
	for o := range outcomes {
		done++
		if o.Failed() {
			result.Failed++
			fmt.Fprintf(w, "failed (%d/%d): %s: %v\n", done, total, o.DOI, o.Err)
			continue
		}
		result.Written++
		fmt.Fprintf(w, "downloaded (%d/%d): %s\n", done, total, o.Path)
	}
	fmt.Fprintf(w, "\nDownload summary: %d written, %d failed (total: %d)\n",
		result.Written, result.Failed, total)
	return result
}
