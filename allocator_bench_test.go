package kizuna_test

import (
	"fmt"
	"testing"

	"github.com/edwinsyarief/kizuna"
)

func sizeName(size int) string {
	if size == 1000000 {
		return "1M"
	}
	return fmt.Sprintf("%dK", size/1000)
}

// Allocator Build Benchmarks
func BenchmarkAllocatorBuild(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(sizeName(size), func(b *testing.B) {
			for b.Loop() {
				b.StopTimer()
				a := kizuna.NewAllocator[node]("nodes", 1024)
				b.StartTimer()
				for range size {
					a.Build(nil)
				}
			}
			b.ReportAllocs()
		})
	}
}

// Allocator churn: destroy and rebuild into recycled slots.
func BenchmarkAllocatorChurn(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(sizeName(size), func(b *testing.B) {
			a := kizuna.NewAllocator[node]("nodes", 1024)
			ns := make([]*node, size)
			for i := range ns {
				ns[i] = a.Build(nil)
			}
			b.ResetTimer()
			for b.Loop() {
				for i := range ns {
					a.Destroy(ns[i])
				}
				for i := range ns {
					ns[i] = a.Build(nil)
				}
			}
			b.ReportAllocs()
		})
	}
}

// Parent/child bind and cascade destroy.
func BenchmarkParentCascade(b *testing.B) {
	sizes := []int{1000, 10000}
	for _, size := range sizes {
		b.Run(sizeName(size), func(b *testing.B) {
			a := kizuna.NewAllocator[node]("nodes", 1024)
			for b.Loop() {
				p := buildNode(a, nodeArgs{})
				for range size {
					buildNode(a, nodeArgs{parent: p})
				}
				a.Destroy(p)
			}
			b.ReportAllocs()
		})
	}
}

// Apprentice rebind between two masters.
func BenchmarkApprenticeRebind(b *testing.B) {
	sizes := []int{1000, 10000}
	for _, size := range sizes {
		b.Run(sizeName(size), func(b *testing.B) {
			a := kizuna.NewAllocator[node]("nodes", 1024)
			m1 := buildNode(a, nodeArgs{})
			m2 := buildNode(a, nodeArgs{})
			ns := make([]*node, size)
			for i := range ns {
				ns[i] = buildNode(a, nodeArgs{master: m1})
			}
			b.ResetTimer()
			for i := 0; b.Loop(); i++ {
				target := &m2.apprentices
				if i%2 == 1 {
					target = &m1.apprentices
				}
				for _, n := range ns {
					n.apprentice.Rebind(target)
				}
			}
			b.ReportAllocs()
		})
	}
}
