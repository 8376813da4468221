package synth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spaix/rtbench/dataset"
)

func baseConfig() Config {
	return Config{
		Insert:   "linear",
		Split:    "linear",
		PageSize: 512,
		Queries:  8,
		Seed:     5489,
		Size:     5000,
		Steps:    5,
		Span:     1e7,
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := baseConfig()

	var buf1, buf2 bytes.Buffer

	sum1, err := NewGenerator(cfg).Generate(&buf1)
	if err != nil {
		t.Fatalf("first generation failed: %v", err)
	}

	sum2, err := NewGenerator(cfg).Generate(&buf2)
	if err != nil {
		t.Fatalf("second generation failed: %v", err)
	}

	if buf1.String() != buf2.String() {
		t.Error("tables are not deterministic for same seed")
	}

	if sum1 != sum2 {
		t.Errorf("summaries differ: %+v vs %+v", sum1, sum2)
	}

	cfg.Seed++

	var buf3 bytes.Buffer
	if _, err := NewGenerator(cfg).Generate(&buf3); err != nil {
		t.Fatalf("third generation failed: %v", err)
	}

	if buf1.String() == buf3.String() {
		t.Error("different seeds produced identical tables")
	}
}

func TestGenerateShape(t *testing.T) {
	var buf bytes.Buffer

	sum, err := NewGenerator(baseConfig()).Generate(&buf)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	if sum.Rows != 5 || sum.Elements != 5000 || sum.Queries != 40 {
		t.Errorf("summary = %+v", sum)
	}

	header, _, _ := strings.Cut(buf.String(), "\n")
	if header != strings.Join(Columns, "\t") {
		t.Errorf("header = %q", header)
	}

	tbl, err := dataset.Read(&buf)
	if err != nil {
		t.Fatalf("output is not a valid table: %v", err)
	}

	if tbl.Len() != 5 {
		t.Fatalf("rows = %d, want 5", tbl.Len())
	}

	n, _ := tbl.Column("n")
	for i, want := range []float64{1000, 2000, 3000, 4000, 5000} {
		if n[i] != want {
			t.Errorf("n[%d] = %g, want %g", i, n[i], want)
		}
	}

	elapsed, _ := tbl.Column("elapsed")
	for i := 1; i < len(elapsed); i++ {
		if elapsed[i] <= elapsed[i-1] {
			t.Errorf("elapsed not increasing at row %d: %v", i, elapsed)
		}
	}

	for _, metric := range []string{"t_ins", "t_iter", "q_dirs", "q_dats"} {
		mean, _ := tbl.Column(metric)
		lo, _ := tbl.Column(metric + "_min")
		hi, _ := tbl.Column(metric + "_max")

		for i := range mean {
			if lo[i] > mean[i] || mean[i] > hi[i] {
				t.Errorf("%s row %d: min %g mean %g max %g",
					metric, i, lo[i], mean[i], hi[i])
			}
		}
	}
}

func TestQuadraticSplitsCostMore(t *testing.T) {
	linear := baseConfig()
	quadratic := baseConfig()
	quadratic.Split = "quadratic"

	last := func(cfg Config) float64 {
		var buf bytes.Buffer
		if _, err := NewGenerator(cfg).Generate(&buf); err != nil {
			t.Fatalf("generation failed: %v", err)
		}

		tbl, err := dataset.Read(&buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}

		elapsed, _ := tbl.Column("elapsed")

		return elapsed[len(elapsed)-1]
	}

	if last(quadratic) <= last(linear) {
		t.Error("quadratic split should take longer to build")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"unknown insert", func(c *Config) { c.Insert = "rstar" }, "unknown algorithm"},
		{"unknown split", func(c *Config) { c.Split = "cubic" }, "unknown algorithm"},
		{"page size", func(c *Config) { c.PageSize = 100 }, "invalid page size"},
		{"no steps", func(c *Config) { c.Steps = 0 }, "steps"},
		{"too few elements", func(c *Config) { c.Size = 2 }, "smaller than steps"},
		{"negative queries", func(c *Config) { c.Queries = -1 }, "queries"},
		{"zero span", func(c *Config) { c.Span = 0 }, "span"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.modify(&cfg)

			var buf bytes.Buffer

			_, err := NewGenerator(cfg).Generate(&buf)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}

			if buf.Len() != 0 {
				t.Error("invalid config should produce no output")
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	var d Distribution
	for _, x := range []float64{4, 1, 7} {
		d.Update(x)
	}

	if d.N() != 3 || d.Min() != 1 || d.Max() != 7 || d.Mean() != 4 {
		t.Errorf("distribution = n %d min %g max %g mean %g",
			d.N(), d.Min(), d.Max(), d.Mean())
	}
}

func TestFanout(t *testing.T) {
	tests := []struct {
		pageSize int
		want     int
	}{
		{64, 2},
		{512, 21},
		{4096, 170},
	}

	for _, tt := range tests {
		cfg := Config{PageSize: tt.pageSize}
		if got := cfg.Fanout(); got != tt.want {
			t.Errorf("Fanout(%d) = %d, want %d", tt.pageSize, got, tt.want)
		}
	}
}
