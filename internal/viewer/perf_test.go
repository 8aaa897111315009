package viewer

import (
	"math"
	"runtime"
	"testing"
	"time"
)

func TestPerfMonitorEMA(t *testing.T) {
	start := time.Unix(1000, 0)
	p := NewPerfMonitor(start)

	now := start.Add(10 * time.Millisecond)
	p.Frame(now)
	if got := p.Stats().FPS; math.Abs(got-10) > 1e-9 {
		t.Fatalf("first frame fps = %v, want 10 (0.1 * 100)", got)
	}

	now = now.Add(10 * time.Millisecond)
	p.Frame(now)
	if got := p.Stats().FPS; math.Abs(got-19) > 1e-9 {
		t.Fatalf("second frame fps = %v, want 19", got)
	}

	for i := 0; i < 200; i++ {
		now = now.Add(10 * time.Millisecond)
		p.Frame(now)
	}
	s := p.Stats()
	if math.Abs(s.FPS-100) > 0.01 {
		t.Errorf("fps should converge to 100, got %v", s.FPS)
	}
	if s.FrameTime != 10*time.Millisecond {
		t.Errorf("frame time = %v", s.FrameTime)
	}
	if s.FrameCount != 202 {
		t.Errorf("frame count = %d", s.FrameCount)
	}
}

func TestPerfMonitorReportsEveryInterval(t *testing.T) {
	start := time.Unix(1000, 0)
	p := NewPerfMonitor(start)
	p.readMem = func(ms *runtime.MemStats) { ms.HeapAlloc = 4096 }

	reports := 0
	now := start
	for i := 0; i < 100; i++ {
		now = now.Add(16 * time.Millisecond)
		if p.Frame(now) {
			reports++
		}
	}

	// 1.6s of frames, one report per 500ms
	if reports != 3 {
		t.Errorf("expected 3 reports, got %d", reports)
	}
	if p.Stats().HeapAlloc != 4096 {
		t.Errorf("heap not refreshed: %d", p.Stats().HeapAlloc)
	}
}

func TestPerfMonitorZeroFrameTime(t *testing.T) {
	start := time.Unix(1000, 0)
	p := NewPerfMonitor(start)
	p.Frame(start)
	if p.Stats().FPS != 0 {
		t.Errorf("zero frame time should not change fps, got %v", p.Stats().FPS)
	}
}
