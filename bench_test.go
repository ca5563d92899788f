package jstream_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/creachadair/jstream"
)

// benchInput constructs a document with n records, followed by the target.
func benchInput(b *testing.B, n int) []byte {
	type record struct {
		ID    int               `json:"id"`
		Name  string            `json:"name"`
		Tags  []string          `json:"tags"`
		Attrs map[string]string `json:"attrs"`
		Score float64           `json:"score"`
	}
	var doc struct {
		Records []record `json:"records"`
		Target  string   `json:"target"`
	}
	for i := range n {
		doc.Records = append(doc.Records, record{
			ID:    i,
			Name:  fmt.Sprintf("record \"%d\"", i),
			Tags:  []string{"alpha", "beta", "{gamma}"},
			Attrs: map[string]string{"color": "blue", "size": "large"},
			Score: float64(i) / 3,
		})
	}
	doc.Target = "found it"
	data, err := json.Marshal(doc)
	if err != nil {
		b.Fatalf("Marshal: %v", err)
	}
	return data
}

func BenchmarkFind(b *testing.B) {
	input := benchInput(b, 2000)
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Unmarshal", func(b *testing.B) {
		b.SetBytes(int64(len(input)))
		for b.Loop() {
			var v struct {
				Target string `json:"target"`
			}
			if err := json.Unmarshal(input, &v); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("Reader", func(b *testing.B) {
		b.SetBytes(int64(len(input)))
		var out bytes.Buffer
		for b.Loop() {
			out.Reset()
			r := jstream.NewReader(bytes.NewReader(input))
			if !r.Find("target") {
				b.Fatalf("Find failed: %v", r.Err())
			}
			if _, err := r.WriteTo(&out); err != nil {
				b.Fatalf("WriteTo failed: %v", err)
			}
		}
	})
}

func BenchmarkBuilder(b *testing.B) {
	buf := make([]byte, 4096)
	b.ReportAllocs()
	for b.Loop() {
		w := jstream.NewBuilder(buf)
		w.BeginObject()
		w.Key("records")
		w.BeginArray()
		for i := range 50 {
			w.BeginObject()
			w.Key("id")
			w.Int(int64(i))
			w.Key("name")
			w.String("some \"name\"")
			w.Key("score")
			w.Float(float64(i) / 3)
			w.EndObject()
		}
		w.EndArray()
		w.EndObject()
		if err := w.Err(); err != nil {
			b.Fatalf("Build failed: %v", err)
		}
	}
}
