package telemetry

import "log"

// parkedMsg stores a serialized MQTT message for replay after reconnection.
type parkedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO that parks messages while the broker
// is unreachable. Not safe for concurrent use — caller must synchronize.
type ringBuffer struct {
	buf      []parkedMsg
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any message was dropped since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{
		buf:      make([]parkedMsg, capacity),
		capacity: capacity,
	}
}

// add parks a message, overwriting the oldest when full.
func (r *ringBuffer) add(msg parkedMsg) {
	if r.count == r.capacity {
		if !r.overflow {
			log.Printf("telemetry: park buffer full (%d messages), dropping oldest", r.capacity)
			r.overflow = true
		}
		// head already points at the oldest entry
		r.buf[r.head] = msg
		r.head = (r.head + 1) % r.capacity
		return
	}
	r.buf[r.head] = msg
	r.head = (r.head + 1) % r.capacity
	r.count++
}

// drain returns all parked messages oldest-first and empties the buffer.
func (r *ringBuffer) drain() []parkedMsg {
	if r.count == 0 {
		return nil
	}

	result := make([]parkedMsg, r.count)
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}

	r.count = 0
	r.head = 0
	r.overflow = false
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}
