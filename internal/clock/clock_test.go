package clock

import (
	"testing"
	"time"
)

func TestReal_NowAndTicker(t *testing.T) {
	clk := Real{}
	before := time.Now()
	if now := clk.Now(); now.Before(before) {
		t.Errorf("Real.Now went backwards: %v < %v", now, before)
	}

	ticker := clk.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Error("Real ticker did not fire")
	}
}

func TestMock_Advance(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	clk := NewMock(start)
	ticker := clk.NewTicker(2 * time.Second)

	clk.Advance(time.Second)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	clk.Advance(time.Second)
	select {
	case got := <-ticker.C():
		if want := start.Add(2 * time.Second); !got.Equal(want) {
			t.Errorf("tick = %v, want %v", got, want)
		}
	default:
		t.Fatal("ticker did not fire after its period")
	}

	if got := clk.Now(); !got.Equal(start.Add(2 * time.Second)) {
		t.Errorf("Now = %v", got)
	}
}

func TestMock_DropsTicksWhenFull(t *testing.T) {
	clk := NewMock(time.Unix(0, 0))
	ticker := clk.NewTicker(time.Second)

	clk.Advance(10 * time.Second)

	<-ticker.C()
	select {
	case <-ticker.C():
		t.Fatal("expected missed ticks to be dropped")
	default:
	}
}

func TestMock_Stop(t *testing.T) {
	clk := NewMock(time.Unix(0, 0))
	ticker := clk.NewTicker(time.Second)
	if n := clk.Tickers(); n != 1 {
		t.Fatalf("Tickers = %d, want 1", n)
	}

	ticker.Stop()
	clk.Advance(5 * time.Second)

	select {
	case _, ok := <-ticker.C():
		if !ok {
			t.Fatal("ticker channel must not be closed")
		}
		t.Fatal("stopped ticker fired")
	default:
	}
	if n := clk.Tickers(); n != 0 {
		t.Errorf("Tickers = %d after Stop, want 0", n)
	}
}
