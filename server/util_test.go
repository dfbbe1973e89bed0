package main

import (
	"sync"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct{ v, min, max, want float64 }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.min, c.max); got != c.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", c.v, c.min, c.max, got, c.want)
		}
	}
}

func TestRandIntBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		got := randInt(3, 7)
		if got < 3 || got > 7 {
			t.Fatalf("randInt(3, 7) = %d", got)
		}
	}
}

func TestGenerateIDLength(t *testing.T) {
	id := GenerateID(4)
	if len(id) != 8 {
		t.Fatalf("id %q has length %d, want 8", id, len(id))
	}
	if id == GenerateID(4) {
		t.Fatal("consecutive ids collided")
	}
}

// Joins and driver-side wave spawns draw randomness concurrently from
// different goroutines; the shared source must tolerate that (run with
// -race).
func TestConcurrentRandomDraws(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			RandomPilotName()
		}
	}()
	go func() {
		defer wg.Done()
		n := &Nova{}
		for i := 0; i < 500; i++ {
			n.Reset()
		}
	}()
	wg.Wait()
}

func TestRandomPilotName(t *testing.T) {
	name := RandomPilotName()
	if name == "" {
		t.Fatal("empty generated name")
	}
	if len(name) > maxNameLen {
		t.Fatalf("generated name %q exceeds the name limit", name)
	}
}
