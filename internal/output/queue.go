package output

// Queue holds decoded interleaved PCM until the consumer pulls it. Buffers
// are returned in the order they were pushed.
type Queue struct {
	bufs     [][]int16
	pos      int // read offset into bufs[0]
	queued   int
	finished bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a buffer of samples. It reports false, and keeps nothing,
// once the queue is finished.
func (q *Queue) Push(samples []int16) bool {
	if q.finished {
		return false
	}
	if len(samples) == 0 {
		return true
	}
	q.bufs = append(q.bufs, samples)
	q.queued += len(samples)
	return true
}

// Read copies up to len(dst) samples into dst and returns how many were
// copied.
func (q *Queue) Read(dst []int16) int {
	n := 0
	for n < len(dst) && len(q.bufs) > 0 {
		c := copy(dst[n:], q.bufs[0][q.pos:])
		n += c
		q.pos += c
		if q.pos == len(q.bufs[0]) {
			q.bufs[0] = nil
			q.bufs = q.bufs[1:]
			q.pos = 0
		}
	}
	q.queued -= n
	return n
}

// Len returns the number of samples waiting to be read.
func (q *Queue) Len() int {
	return q.queued
}

// EndOfData reports whether no samples are currently queued.
func (q *Queue) EndOfData() bool {
	return q.queued == 0
}

// EndOfStream reports whether the queue is finished and fully drained.
func (q *Queue) EndOfStream() bool {
	return q.finished && q.queued == 0
}

// Finish marks the queue as complete. Queued samples stay readable.
func (q *Queue) Finish() {
	q.finished = true
}

// IsFinished reports whether Finish has been called.
func (q *Queue) IsFinished() bool {
	return q.finished
}
