package library

// Limits for extracted-text storage. The captured text is partitioned into
// fixed-size segments so each fits a single backend cell.
const (
	// MaxChunkLen is the maximum length of one text chunk.
	MaxChunkLen = 20000

	// MaxChunks is the maximum number of chunks stored per item.
	MaxChunks = 10

	// MaxCapturedLen is the total cap on captured text (MaxChunkLen * MaxChunks).
	MaxCapturedLen = 200000
)

// SplitChunks partitions text into ordered chunks of at most MaxChunkLen
// bytes, capped at MaxChunks. Text beyond MaxCapturedLen is dropped. The
// chunks concatenate back to the captured prefix of the input.
func SplitChunks(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) > MaxCapturedLen {
		text = text[:MaxCapturedLen]
	}

	chunks := make([]string, 0, (len(text)+MaxChunkLen-1)/MaxChunkLen)
	for len(text) > 0 {
		n := len(text)
		if n > MaxChunkLen {
			n = MaxChunkLen
		}
		chunks = append(chunks, text[:n])
		text = text[n:]
	}
	return chunks
}

// JoinChunks reassembles the captured text from its chunk partition.
func JoinChunks(chunks []string) string {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	buf := make([]byte, 0, total)
	for _, c := range chunks {
		buf = append(buf, c...)
	}
	return string(buf)
}
