package bench

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"verdict/internal/dataset"
	"verdict/internal/ingest"
	"verdict/internal/rules"
	"verdict/internal/storage"
)

// benchCSV renders n rows shaped like the people fixtures.
func benchCSV(n int) string {
	var b strings.Builder
	b.WriteString("id,name,score,active,country\n")
	countries := []string{"US", "UK", "FR", "", "DE"}
	for i := 0; i < n; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(",name_")
		b.WriteString(strconv.Itoa(i % 1000))
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(float64(i%1000)/10, 'f', 1, 64))
		if i%2 == 0 {
			b.WriteString(",true,")
		} else {
			b.WriteString(",false,")
		}
		b.WriteString(countries[i%len(countries)])
		b.WriteByte('\n')
	}
	return b.String()
}

func benchSchema() dataset.Schema {
	return dataset.NewSchema(
		dataset.NewField("id", dataset.Int),
		dataset.NewField("name", dataset.Str),
		dataset.NewField("score", dataset.Float),
		dataset.NewField("active", dataset.Bool),
		dataset.NewField("country", dataset.Str),
	)
}

func benchRules() []rules.Rule {
	return []rules.Rule{
		rules.NewRule("id", rules.NotNull{}),
		rules.NewRule("id", rules.Unique{}),
		rules.NewRule("score", rules.Between{Min: 0, Max: 100}),
		rules.NewRule("name", rules.MatchesRegex{Pattern: `^name_\d+$`}),
		rules.NewRule("name", rules.LengthBetween{Min: 6, Max: 8}),
		rules.NewRule("country", rules.InSet{Values: dataset.StrSet{"US", "UK", "FR"}}),
		rules.NewRule("active", rules.NotNull{}),
	}
}

// BenchmarkEndToEnd measures CSV ingestion, rule evaluation and result
// batching against a fake COPY function, with no database involved.
// Run with:
//
//	go test -run=^$ -bench ^BenchmarkEndToEnd$ -cpuprofile cpu.out -memprofile mem.out -count=1
func BenchmarkEndToEnd(b *testing.B) {
	ctx := context.Background()
	input := benchCSV(50000)
	schema := benchSchema()
	rs := benchRules()

	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		return int64(len(rows)), nil
	}
	repo := fakeRepo{copyFn: copyFn}

	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ds, err := ingest.FromReader(ctx, strings.NewReader(input), schema)
		if err != nil {
			b.Fatalf("FromReader: %v", err)
		}
		results := rules.Validate(ds, rs)
		nrows, _ := ds.Shape()
		run := storage.NewRun("bench", ds.Fingerprint(), nrows)
		if _, err := storage.SaveResults(ctx, repo, run, results, 500); err != nil {
			b.Fatalf("SaveResults: %v", err)
		}
	}
}

// BenchmarkValidate isolates rule evaluation, sequential and parallel.
func BenchmarkValidate(b *testing.B) {
	ds, err := ingest.FromReader(context.Background(), strings.NewReader(benchCSV(100000)), benchSchema())
	if err != nil {
		b.Fatalf("FromReader: %v", err)
	}
	rs := benchRules()

	b.Run("sequential", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = rules.Validate(ds, rs)
		}
	})
	b.Run("parallel", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := rules.ValidateParallel(context.Background(), ds, rs, 4); err != nil {
				b.Fatal(err)
			}
		}
	})
}

type fakeRepo struct {
	copyFn storage.CopyFn
}

func (r fakeRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return r.copyFn(ctx, columns, rows)
}
func (fakeRepo) Exec(context.Context, string) error { return nil }
func (fakeRepo) Close()                             {}
