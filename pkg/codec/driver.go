package codec

import "gzt/pkg/buffer"

// DriveCompressor repeatedly steps c over the segments of in and out,
// carrying partially filled segments forward, until input is exhausted
// with nothing left buffered internally, output is exhausted, or c
// reports Done. It sums Progress across every Step call.
func DriveCompressor(c Compressor, out *buffer.Chain[buffer.MutBuf], in *buffer.Chain[buffer.ConstBuf], flush FlushMode) (buffer.Progress, error) {
	var total buffer.Progress
	for {
		outSeg := out.Current()
		inSeg := in.Current()
		atEnd := in.Done()

		// Nowhere left to write: stop, whether or not input remains,
		// unless finishing, since then the codec may still have internal
		// state to flush even with empty buffers on both sides.
		if outSeg.Empty() && (atEnd || !inSeg.Empty()) && flush != Finish {
			return total, nil
		}

		stepFlush := flush
		if !atEnd {
			// The real flush request is passed only once every input
			// segment has been consumed; until then every segment is fed
			// with NoFlush so the codec doesn't prematurely terminate
			// mid-stream.
			stepFlush = NoFlush
		}

		p, err := c.Step(outSeg, inSeg, stepFlush)
		if err != nil {
			return total, err
		}
		total = total.Add(p)
		out.Advance(int(p.BytesWritten))
		in.Advance(int(p.BytesRead))

		if p.Done {
			return total, nil
		}
		if p.BytesWritten == 0 && p.BytesRead == 0 {
			// No progress possible right now: either both buffers are
			// genuinely empty (normal suspension point) or output is
			// full while input remains (caller must supply more room).
			return total, nil
		}
	}
}

// DriveDecompressor is DriveCompressor's counterpart for the flush-free
// Decompressor contract.
func DriveDecompressor(d Decompressor, out *buffer.Chain[buffer.MutBuf], in *buffer.Chain[buffer.ConstBuf]) (buffer.Progress, error) {
	var total buffer.Progress
	for {
		outSeg := out.Current()
		inSeg := in.Current()

		if outSeg.Empty() && inSeg.Empty() {
			return total, nil
		}

		p, err := d.Step(outSeg, inSeg)
		if err != nil {
			return total, err
		}
		total = total.Add(p)
		out.Advance(int(p.BytesWritten))
		in.Advance(int(p.BytesRead))

		if p.Done {
			return total, nil
		}
		if p.BytesWritten == 0 && p.BytesRead == 0 {
			return total, nil
		}
	}
}
