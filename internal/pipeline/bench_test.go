package pipeline

import "testing"

func BenchmarkDerive(b *testing.B) {
	r := makeResult(5000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Derive(r)
	}
}

func BenchmarkSortTransactions(b *testing.B) {
	r := makeResult(5000)
	cfg := SortConfig{Key: SortAmount, Desc: true}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SortTransactions(r.Transactions, cfg)
	}
}
