package render

import (
	"testing"

	"github.com/diogo/geminichat/internal/models"
)

const benchReply = "## Goroutines\n\n" +
	"A goroutine is a **lightweight thread** managed by the Go runtime.\n\n" +
	"1. Start one with `go f()`\n" +
	"2. Coordinate with channels\n" +
	"3. Wait with `sync.WaitGroup`\n\n" +
	"| Primitive | Use |\n" +
	"|-----------|-----|\n" +
	"| chan | hand-off |\n" +
	"| Mutex | shared state |\n"

const benchCodeReply = "```go\n" +
	"func worker(jobs <-chan int, out chan<- int) {\n" +
	"\tfor j := range jobs {\n" +
	"\t\tout <- j * 2\n" +
	"\t}\n" +
	"}\n" +
	"```"

func BenchmarkEntryMarkdown(b *testing.B) {
	entry := models.NewAssistantEntry(models.CompleteResult(benchReply))
	opts := DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Entry(entry, opts)
	}
}

func BenchmarkEntryMarkdownColdCache(b *testing.B) {
	entry := models.NewAssistantEntry(models.CompleteResult(benchReply))
	opts := DefaultOptions()

	for i := 0; i < b.N; i++ {
		ClearCache()
		_ = Entry(entry, opts)
	}
}

func BenchmarkEntryMarkdownParallel(b *testing.B) {
	entry := models.NewAssistantEntry(models.CompleteResult(benchReply))
	opts := DefaultOptions()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = Entry(entry, opts)
		}
	})
}

func BenchmarkEntryCode(b *testing.B) {
	entry := models.NewAssistantEntry(models.CompleteResult(benchCodeReply))
	opts := DefaultOptions()

	for i := 0; i < b.N; i++ {
		_ = Entry(entry, opts)
	}
}
