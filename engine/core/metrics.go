package core

const AVG_COUNT = 60

// FrameMetrics keeps a ring of recent frame times and refreshes the
// averaged FPS at most every UpdateInterval seconds.
type FrameMetrics struct {
	UpdateInterval float64

	samples    [AVG_COUNT]float64
	index      int
	filled     int
	lastUpdate float64
	updated    bool
	avgFrame   float64
	fps        float64
	frames     uint64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{UpdateInterval: 0.10}
}

// Update records one frame. currentTime and deltaTime are in seconds.
func (m *FrameMetrics) Update(currentTime, deltaTime float64) {
	m.samples[m.index] = deltaTime
	m.index = (m.index + 1) % AVG_COUNT
	if m.filled < AVG_COUNT {
		m.filled++
	}
	m.frames++

	if !m.updated || currentTime-m.lastUpdate > m.UpdateInterval {
		sum := 0.0
		for i := 0; i < m.filled; i++ {
			sum += m.samples[i]
		}
		m.avgFrame = sum / float64(m.filled)
		if m.avgFrame != 0 {
			m.fps = 1 / m.avgFrame
		}
		m.lastUpdate = currentTime
		m.updated = true
	}
}

func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

// FrameTime is the averaged frame time in milliseconds.
func (m *FrameMetrics) FrameTime() float64 {
	return m.avgFrame * 1000.0
}

func (m *FrameMetrics) Frames() uint64 {
	return m.frames
}
