package workerpool

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsJobAndReturnsResult(t *testing.T) {
	p := New(4, 16)
	defer p.Shutdown()

	ch, err := Submit(p, func() int { return 42 })
	if err != nil {
		t.Fatal(err)
	}
	select {
	case v := <-ch:
		if v != 42 {
			t.Fatalf("got %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func TestSubmitAfterShutdownReturnsErrClosed(t *testing.T) {
	p := New(2, 4)
	p.Shutdown()

	ch, err := Submit(p, func() int { return 1 })
	if err != ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed with no value")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	p := New(2, 4)
	p.Shutdown()
	p.Shutdown()
}

func TestShutdownWaitsForInFlightJobs(t *testing.T) {
	p := New(1, 4)
	var done atomic.Bool

	_, err := Submit(p, func() int {
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
		return 0
	})
	if err != nil {
		t.Fatal(err)
	}
	p.Shutdown()
	if !done.Load() {
		t.Fatal("Shutdown returned before in-flight job completed")
	}
}

func TestPanicInJobDoesNotKillWorker(t *testing.T) {
	p := New(1, 4)
	defer p.Shutdown()

	_, err := Submit(p, func() int {
		panic("boom")
	})
	if err != nil {
		t.Fatal(err)
	}

	ch, err := Submit(p, func() int { return 7 })
	if err != nil {
		t.Fatal(err)
	}
	select {
	case v := <-ch:
		if v != 7 {
			t.Fatalf("got %d, want 7", v)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a panicking job")
	}
}

func TestAllSubmittedJobsEventuallyRun(t *testing.T) {
	p := New(8, 32)
	defer p.Shutdown()

	const n = 200
	var sum atomic.Int64
	chans := make([]<-chan int, n)
	for i := 0; i < n; i++ {
		i := i
		ch, err := Submit(p, func() int {
			sum.Add(int64(i))
			return i
		})
		if err != nil {
			t.Fatal(err)
		}
		chans[i] = ch
	}
	for _, ch := range chans {
		<-ch
	}
	want := int64(n * (n - 1) / 2)
	if sum.Load() != want {
		t.Fatalf("sum = %d, want %d", sum.Load(), want)
	}
}
