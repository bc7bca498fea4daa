// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeNow(t *testing.T) {
	initial := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(initial)

	if got := fake.Now(); !got.Equal(initial) {
		t.Errorf("Now() = %v, want %v", got, initial)
	}

	fake.Advance(90 * time.Second)
	if got := fake.Now(); !got.Equal(initial.Add(90 * time.Second)) {
		t.Errorf("Now() after Advance = %v, want %v", got, initial.Add(90*time.Second))
	}
}

func TestFakeAfterFiresOnAdvance(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ch := fake.After(10 * time.Second)

	select {
	case <-ch:
		t.Fatal("After fired before Advance")
	default:
	}

	fake.Advance(10 * time.Second)

	select {
	case fired := <-ch:
		want := time.Date(2026, 3, 1, 12, 0, 10, 0, time.UTC)
		if !fired.Equal(want) {
			t.Errorf("fired at %v, want %v", fired, want)
		}
	default:
		t.Fatal("After did not fire after Advance")
	}
}

func TestFakeAfterImmediateForNonPositive(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) should fire immediately")
	}

	select {
	case <-fake.After(-time.Second):
	default:
		t.Fatal("After(negative) should fire immediately")
	}
}

func TestFakeAdvancePartial(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ch := fake.After(10 * time.Second)

	fake.Advance(5 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before its deadline")
	default:
	}

	fake.Advance(5 * time.Second)
	select {
	case <-ch:
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeSleepBlocksUntilAdvance(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	done := make(chan struct{})
	go func() {
		fake.Sleep(30 * time.Second)
		close(done)
	}()

	fake.WaitForTimers(1)

	select {
	case <-done:
		t.Fatal("Sleep returned before Advance")
	default:
	}

	fake.Advance(30 * time.Second)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sleep did not return after Advance")
	}
}

func TestFakePendingCount(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	if got := fake.PendingCount(); got != 0 {
		t.Errorf("PendingCount = %d, want 0", got)
	}

	fake.After(time.Second)
	fake.After(2 * time.Second)
	if got := fake.PendingCount(); got != 2 {
		t.Errorf("PendingCount = %d, want 2", got)
	}

	fake.Advance(time.Second)
	if got := fake.PendingCount(); got != 1 {
		t.Errorf("PendingCount after Advance = %d, want 1", got)
	}
}
