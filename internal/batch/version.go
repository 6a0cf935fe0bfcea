package batch

import (
	"crypto/sha256"
	"fmt"

	"github.com/comalice/formulax"
)

// ComputeVersion identifies a job's contents. An explicit Version wins;
// otherwise it is the first 8 bytes of the SHA-256 of the job's name,
// worker count and items, so unchanged jobs keep their version across runs.
func ComputeVersion(job *Job) string {
	if job.Version != "" {
		return job.Version
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00", job.Name, job.Workers)
	for _, it := range job.Items {
		fmt.Fprintf(h, "%s\x00%s\x00", it.ID, formulax.Normalize(it.Formula))
		for _, a := range it.Args {
			fmt.Fprintf(h, "%s\x00", formulax.FormatFloat(a, -1))
		}
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:8])
}
