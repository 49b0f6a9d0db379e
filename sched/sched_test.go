package sched

import "testing"

func TestRunTasksExecutesInOrder(t *testing.T) {
	var order []int
	r := New(
		func() { order = append(order, 0) },
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	)
	r.RunTasks()
	want := []int{0, 1, 2}
	for i, v := range want {
		if order[i] != v {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRunStopsAfterStop(t *testing.T) {
	rounds := 0
	var r *Runner
	r = New(func() {
		rounds++
		if rounds >= 3 {
			r.Stop()
		}
	})
	r.Run()
	if rounds != 3 {
		t.Fatalf("rounds = %d, want 3", rounds)
	}
}
