package buffer

// Progress is the shared result shape every transformer Step returns:
// how many bytes it produced, how many it consumed, and whether it has
// emitted its terminal output and will produce no more.
type Progress struct {
	BytesWritten uint64
	BytesRead    uint64
	Done         bool
}

// Add returns the componentwise sum of p and other, with Done set true as
// soon as either side reports completion.
func (p Progress) Add(other Progress) Progress {
	return Progress{
		BytesWritten: p.BytesWritten + other.BytesWritten,
		BytesRead:    p.BytesRead + other.BytesRead,
		Done:         p.Done || other.Done,
	}
}
